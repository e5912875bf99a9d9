package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/podstation-backend/models"
)

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	body := jsonBody(t, map[string]interface{}{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "secret123",
	})
	rec := doRequest(r, http.MethodPost, "/api/auth/register", "", body, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "newuser", resp.User.Username)

	var user models.User
	require.NoError(t, db.Where("email = ?", "newuser@example.com").First(&user).Error)
	// Mật khẩu lưu dạng bcrypt, không phải plaintext
	assert.NotEqual(t, "secret123", user.Password)
	assert.NotEmpty(t, user.Password)
}

func TestRegisterDuplicates(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	createTestUser(t, db, "taken")

	// Email trùng
	rec := doRequest(r, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]interface{}{
		"username": "somebody",
		"email":    "taken@example.com",
		"password": "secret123",
	}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Username trùng
	rec = doRequest(r, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]interface{}{
		"username": "taken",
		"email":    "other@example.com",
		"password": "secret123",
	}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Mật khẩu quá ngắn
	rec = doRequest(r, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]interface{}{
		"username": "shorty",
		"email":    "shorty@example.com",
		"password": "abc",
	}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndGetMe(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	createTestUser(t, db, "alice")

	rec := doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Token dùng được cho route bảo vệ
	rec = doRequest(r, http.MethodGet, "/api/user/me", resp.Token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	createTestUser(t, db, "alice")

	rec := doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Route bảo vệ phải trả 401 khi chưa đăng nhập, không được lộ dữ liệu
func TestGuardedRoutesRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/me"},
		{http.MethodGet, "/api/user/me/podcasts"},
		{http.MethodGet, "/api/user/me/favorites"},
		{http.MethodGet, "/api/user/me/subscriptions"},
		{http.MethodGet, "/api/user/me/progress"},
		{http.MethodGet, "/api/user/notifications"},
	}
	for _, p := range paths {
		rec := doRequest(r, p.method, p.path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}

	// Token rác cũng bị chặn
	rec := doRequest(r, http.MethodGet, "/api/user/me", "not-a-jwt", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "alice")

	// Sai mật khẩu cũ
	rec := doRequest(r, http.MethodPost, "/api/user/me/change-password", token, jsonBody(t, map[string]interface{}{
		"old_password": "wrong",
		"new_password": "brandnew123",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(r, http.MethodPost, "/api/user/me/change-password", token, jsonBody(t, map[string]interface{}{
		"old_password": "password123",
		"new_password": "brandnew123",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	// Đăng nhập bằng mật khẩu mới
	rec = doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "alice@example.com",
		"password": "brandnew123",
	}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Mật khẩu cũ hết tác dụng
	rec = doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPasswordDoesNotLeakAccounts(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, _ := createTestUser(t, db, "alice")

	// Email không tồn tại: vẫn 200, không có token nào được tạo
	rec := doRequest(r, http.MethodPost, "/api/auth/forgot-password", "", jsonBody(t, map[string]interface{}{
		"email": "ghost@example.com",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	unknownBody := rec.Body.String()

	var count int64
	db.Model(&models.PasswordReset{}).Count(&count)
	assert.Zero(t, count)

	// Email tồn tại: cùng message, có token
	rec = doRequest(r, http.MethodPost, "/api/auth/forgot-password", "", jsonBody(t, map[string]interface{}{
		"email": "alice@example.com",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, unknownBody, rec.Body.String())

	var reset models.PasswordReset
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&reset).Error)
	assert.Len(t, reset.Token, 64)
	assert.False(t, reset.Used)
	assert.True(t, reset.ExpiresAt.After(time.Now()))
}

func TestResetPasswordFlow(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, _ := createTestUser(t, db, "alice")

	rec := doRequest(r, http.MethodPost, "/api/auth/forgot-password", "", jsonBody(t, map[string]interface{}{
		"email": "alice@example.com",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var reset models.PasswordReset
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&reset).Error)

	rec = doRequest(r, http.MethodPost, "/api/auth/reset-password", "", jsonBody(t, map[string]interface{}{
		"token":        reset.Token,
		"new_password": "afterreset123",
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	// Token chỉ dùng được một lần
	rec = doRequest(r, http.MethodPost, "/api/auth/reset-password", "", jsonBody(t, map[string]interface{}{
		"token":        reset.Token,
		"new_password": "again123456",
	}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Đăng nhập bằng mật khẩu mới
	rec = doRequest(r, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]interface{}{
		"email":    "alice@example.com",
		"password": "afterreset123",
	}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, _ := createTestUser(t, db, "alice")

	reset := models.PasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&reset).Error)

	rec := doRequest(r, http.MethodPost, "/api/auth/reset-password", "", jsonBody(t, map[string]interface{}{
		"token":        reset.Token,
		"new_password": "afterreset123",
	}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

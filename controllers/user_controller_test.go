package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/podstation-backend/models"
)

func TestUpdateMeUsername(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice, aliceToken := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	// Đổi sang username đã có người dùng
	body, contentType := multipartBody(t, map[string]string{"username": "bob"}, "", "", "", nil)
	rec := doRequest(r, http.MethodPut, "/api/user/me", aliceToken, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Đổi sang username mới
	body, contentType = multipartBody(t, map[string]string{"username": "alice_v2"}, "", "", "", nil)
	rec = doRequest(r, http.MethodPut, "/api/user/me", aliceToken, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", alice.ID).Error)
	assert.Equal(t, "alice_v2", got.Username)
}

func TestUpdateMeAvatar(t *testing.T) {
	db := setupTestDB(t)
	uploads, _ := stubStorage(t)
	r := newTestRouter(db)

	alice, aliceToken := createTestUser(t, db, "alice")

	// Avatar không phải ảnh
	body, contentType := multipartBody(t, nil, "avatar", "avatar.txt", "text/plain", []byte("nope"))
	rec := doRequest(r, http.MethodPut, "/api/user/me", aliceToken, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, *uploads)

	body, contentType = multipartBody(t, nil, "avatar", "avatar.png", "image/png", []byte("png-bytes"))
	rec = doRequest(r, http.MethodPut, "/api/user/me", aliceToken, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *uploads)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", alice.ID).Error)
	assert.True(t, strings.Contains(got.AvatarURL, "/avatars/"))
}

func TestUpdateMeResponseShape(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "alice")

	body, contentType := multipartBody(t, map[string]string{"username": "renamed"}, "", "", "", nil)
	rec := doRequest(r, http.MethodPut, "/api/user/me", token, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.User.Username)
}

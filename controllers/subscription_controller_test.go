package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/podstation-backend/models"
)

func TestSubscribeToggleRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	author, _ := createTestUser(t, db, "author")
	_, token := createTestUser(t, db, "listener")
	podcast := createTestPodcast(t, db, author.ID, "Show")
	path := "/api/user/podcasts/" + podcast.ID.String() + "/subscription"

	rec := doRequest(r, http.MethodPost, path, token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Podcast
	require.NoError(t, db.First(&got, "id = ?", podcast.ID).Error)
	assert.Equal(t, 1, got.SubscriberCount)

	// Đăng ký trùng
	rec = doRequest(r, http.MethodPost, path, token, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.NoError(t, db.First(&got, "id = ?", podcast.ID).Error)
	assert.Equal(t, 1, got.SubscriberCount)

	// Bỏ theo dõi: không còn join row, count về 0
	rec = doRequest(r, http.MethodDelete, path, token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.Subscription{}).Where("podcast_id = ?", podcast.ID).Count(&count)
	assert.Zero(t, count)

	require.NoError(t, db.First(&got, "id = ?", podcast.ID).Error)
	assert.Zero(t, got.SubscriberCount)

	rec = doRequest(r, http.MethodDelete, path, token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribePodcastNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "listener")

	rec := doRequest(r, http.MethodPost, "/api/user/podcasts/00000000-0000-0000-0000-000000000000/subscription", token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribeNotifiesAuthor(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	author, authorToken := createTestUser(t, db, "author")
	listener, listenerToken := createTestUser(t, db, "listener")
	podcast := createTestPodcast(t, db, author.ID, "Show")
	path := "/api/user/podcasts/" + podcast.ID.String() + "/subscription"

	rec := doRequest(r, http.MethodPost, path, listenerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var notis []models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).Find(&notis).Error)
	require.Len(t, notis, 1)
	assert.Equal(t, "subscribe", notis[0].Type)
	assert.Contains(t, notis[0].Message, listener.Username)
	require.NotNil(t, notis[0].PodcastID)
	assert.Equal(t, podcast.ID, *notis[0].PodcastID)

	// Tác giả tự theo dõi podcast của mình: không có thông báo mới
	rec = doRequest(r, http.MethodPost, path, authorToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", author.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCheckSubscription(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	author, _ := createTestUser(t, db, "author")
	listener, token := createTestUser(t, db, "listener")
	podcast := createTestPodcast(t, db, author.ID, "Show")
	path := "/api/user/podcasts/" + podcast.ID.String() + "/subscription"

	rec := doRequest(r, http.MethodGet, path, token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_subscribed": false}`, rec.Body.String())

	require.NoError(t, db.Create(&models.Subscription{UserID: listener.ID, PodcastID: podcast.ID}).Error)

	rec = doRequest(r, http.MethodGet, path, token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_subscribed": true}`, rec.Body.String())
}

func TestGetSubscriptionsListsOwnOnly(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	author, _ := createTestUser(t, db, "author")
	alice, aliceToken := createTestUser(t, db, "alice")
	bob, _ := createTestUser(t, db, "bob")
	show1 := createTestPodcast(t, db, author.ID, "Show One")
	show2 := createTestPodcast(t, db, author.ID, "Show Two")

	require.NoError(t, db.Create(&models.Subscription{UserID: alice.ID, PodcastID: show1.ID}).Error)
	require.NoError(t, db.Create(&models.Subscription{UserID: bob.ID, PodcastID: show2.ID}).Error)

	rec := doRequest(r, http.MethodGet, "/api/user/me/subscriptions", aliceToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var subs []models.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, show1.ID, subs[0].PodcastID)
	assert.Equal(t, "Show One", subs[0].Podcast.Title)
	assert.Equal(t, "author", subs[0].Podcast.Author.Username)
}

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
	"github.com/vnkhanh/podstation-backend/ws"
)

// Theo dõi một podcast
// POST /api/user/podcasts/:id/subscription
func Subscribe(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid podcast_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)

	// Podcast phải tồn tại
	var podcast models.Podcast
	if err := db.First(&podcast, "id = ?", podcastID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Podcast not found"})
		return
	}

	// Kiểm tra xem đã theo dõi chưa
	var sub models.Subscription
	if err := db.Where("user_id = ? AND podcast_id = ?", userID, podcastID).First(&sub).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already subscribed"})
		return
	}

	newSub := models.Subscription{
		UserID:    userID,
		PodcastID: podcastID,
	}

	tx := db.Begin()
	if err := tx.Create(&newSub).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	// Tăng SubscriberCount
	if err := tx.Model(&models.Podcast{}).
		Where("id = ?", podcastID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscriber count"})
		return
	}

	tx.Commit()

	// Thông báo cho tác giả (trừ khi tự theo dõi podcast của mình)
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err == nil {
		if podcast.AuthorID != user.ID {
			message := user.Username + " đã theo dõi podcast \"" + podcast.Title + "\""

			noti := models.Notification{
				ID:        uuid.New(),
				UserID:    podcast.AuthorID,
				Title:     "Podcast của bạn có người theo dõi mới",
				Message:   message,
				Type:      "subscribe",
				PodcastID: &podcast.ID,
			}
			db.Create(&noti)

			var count int64
			db.Model(&models.Notification{}).
				Where("user_id = ? AND is_read = ?", podcast.AuthorID, false).
				Count(&count)

			payload := map[string]interface{}{
				"type":       "subscribe_notification",
				"title":      noti.Title,
				"message":    noti.Message,
				"podcast_id": podcast.ID,
			}
			if data, err := json.Marshal(payload); err == nil {
				ws.H.BroadcastToUser(podcast.AuthorID.String(), websocket.TextMessage, data)
			}

			ws.SendBadgeUpdate(podcast.AuthorID.String(), count)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
}

// Bỏ theo dõi
// DELETE /api/user/podcasts/:id/subscription
func Unsubscribe(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid podcast_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)

	tx := db.Begin()
	result := tx.Where("user_id = ? AND podcast_id = ?", userID, podcastID).
		Delete(&models.Subscription{})

	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	// Giảm SubscriberCount nhưng không nhỏ hơn 0
	if err := tx.Model(&models.Podcast{}).
		Where("id = ? AND subscriber_count > 0", podcastID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count - ?", 1)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscriber count"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// GET /api/user/podcasts/:id/subscription
func CheckSubscription(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, _ := uuid.Parse(userIDStr)

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid podcast_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)
	var sub models.Subscription
	if err := db.Where("user_id = ? AND podcast_id = ?", userID, podcastID).First(&sub).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"is_subscribed": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_subscribed": true})
}

// Lấy danh sách podcast đang theo dõi, mới nhất trước
// GET /api/user/me/subscriptions
func GetSubscriptions(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, _ := uuid.Parse(userIDStr)

	db := c.MustGet("db").(*gorm.DB)

	var subscriptions []models.Subscription
	if err := db.
		Preload("Podcast").
		Preload("Podcast.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

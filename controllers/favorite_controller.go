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

// Thêm episode vào danh sách yêu thích
// POST /api/user/episodes/:id/favorite
func AddFavorite(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)

	// Episode phải tồn tại
	var episode models.Episode
	if err := db.Preload("Podcast").First(&episode, "id = ?", episodeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
		return
	}

	// Kiểm tra xem đã tồn tại chưa
	var fav models.Favorite
	if err := db.Where("user_id = ? AND episode_id = ?", userID, episodeID).First(&fav).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already favorited"})
		return
	}

	newFav := models.Favorite{
		UserID:    userID,
		EpisodeID: episodeID,
	}

	tx := db.Begin()
	if err := tx.Create(&newFav).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	// Tăng FavoriteCount
	if err := tx.Model(&models.Episode{}).
		Where("id = ?", episodeID).
		UpdateColumn("favorite_count", gorm.Expr("favorite_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorite count"})
		return
	}

	tx.Commit()

	// Thông báo cho chủ podcast (trừ khi tự yêu thích episode của mình)
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err == nil {
		if episode.Podcast.AuthorID != user.ID {
			message := user.Username + " đã yêu thích episode \"" + episode.Title + "\""

			noti := models.Notification{
				ID:        uuid.New(),
				UserID:    episode.Podcast.AuthorID,
				Title:     "Episode của bạn được yêu thích",
				Message:   message,
				Type:      "favorite",
				PodcastID: &episode.PodcastID,
				EpisodeID: &episode.ID,
			}
			db.Create(&noti)

			// Đếm chưa đọc
			var count int64
			db.Model(&models.Notification{}).
				Where("user_id = ? AND is_read = ?", episode.Podcast.AuthorID, false).
				Count(&count)

			// Gửi realtime riêng cho chủ podcast
			payload := map[string]interface{}{
				"type":       "favorite_notification",
				"title":      noti.Title,
				"message":    noti.Message,
				"episode_id": episode.ID,
			}
			if data, err := json.Marshal(payload); err == nil {
				ws.H.BroadcastToUser(episode.Podcast.AuthorID.String(), websocket.TextMessage, data)
			}

			ws.SendBadgeUpdate(episode.Podcast.AuthorID.String(), count)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

// Bỏ yêu thích
// DELETE /api/user/episodes/:id/favorite
func RemoveFavorite(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)

	tx := db.Begin()
	result := tx.Where("user_id = ? AND episode_id = ?", userID, episodeID).
		Delete(&models.Favorite{})

	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	// Giảm FavoriteCount nhưng không nhỏ hơn 0
	if err := tx.Model(&models.Episode{}).
		Where("id = ? AND favorite_count > 0", episodeID).
		UpdateColumn("favorite_count", gorm.Expr("favorite_count - ?", 1)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorite count"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

// GET /api/user/episodes/:id/favorite
func CheckFavorite(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, _ := uuid.Parse(userIDStr)

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	db := c.MustGet("db").(*gorm.DB)
	var fav models.Favorite
	if err := db.Where("user_id = ? AND episode_id = ?", userID, episodeID).First(&fav).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"is_favorite": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_favorite": true})
}

// Lấy danh sách episode yêu thích, mới nhất trước
// GET /api/user/me/favorites
func GetFavorites(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	userID, _ := uuid.Parse(userIDStr)

	db := c.MustGet("db").(*gorm.DB)

	var favorites []models.Favorite
	if err := db.
		Preload("Episode").
		Preload("Episode.Podcast").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

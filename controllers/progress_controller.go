package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
)

// Request body cho việc lưu vị trí nghe
type SaveProgressRequest struct {
	PositionSec int   `json:"position_sec" binding:"min=0"`
	DurationSec int   `json:"duration_sec" binding:"required,min=1"` // tổng thời lượng episode
	Completed   *bool `json:"completed,omitempty"`
}

// SaveProgress lưu hoặc cập nhật vị trí nghe của một episode.
// Player gửi định kỳ thay vì poll: PUT /api/user/episodes/:id/progress
func SaveProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	var req SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Kiểm tra episode tồn tại
	var episode models.Episode
	if err := db.First(&episode, "id = ?", episodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query episode"})
		return
	}

	var progress models.PlaybackProgress
	result := db.Where("user_id = ? AND episode_id = ?", userID, episodeID).First(&progress)
	now := time.Now()

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		// Tạo mới
		progress = models.PlaybackProgress{
			ID:              uuid.New(),
			UserID:          userID,
			EpisodeID:       episodeID,
			PositionSec:     req.PositionSec,
			DurationSec:     req.DurationSec,
			FirstListenedAt: now,
			LastListenedAt:  now,
			Completed:       false,
		}
		if req.Completed != nil && *req.Completed {
			progress.Completed = true
			progress.CompletedAt = &now
		}

		if err := db.Create(&progress).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create playback progress"})
			return
		}
	} else if result.Error == nil {
		// Cập nhật
		progress.LastListenedAt = now
		progress.PositionSec = req.PositionSec

		// Nếu duration từ client lớn hơn -> cập nhật
		if req.DurationSec > progress.DurationSec {
			progress.DurationSec = req.DurationSec
		}

		// Completed là trạng thái dính, không quay lại false
		if req.Completed != nil && *req.Completed && !progress.Completed {
			progress.Completed = true
			progress.CompletedAt = &now
		}

		if err := db.Save(&progress).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update playback progress"})
			return
		}
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	db.Preload("Episode").First(&progress, "id = ?", progress.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Playback progress saved",
		"data":    progress,
	})
}

// GetProgressList lấy danh sách tiến trình nghe của user, nghe gần nhất trước
// GET /api/user/me/progress
func GetProgressList(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	// Pagination
	limit := 20
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	query := db.Where("user_id = ?", userID).
		Preload("Episode").
		Preload("Episode.Podcast").
		Order("last_listened_at DESC")

	// Lọc theo trạng thái hoàn thành
	if completed := c.Query("completed"); completed != "" {
		switch completed {
		case "true":
			query = query.Where("completed = ?", true)
		case "false":
			query = query.Where("completed = ?", false)
		}
	}

	var total int64
	db.Model(&models.PlaybackProgress{}).Where("user_id = ?", userID).Count(&total)

	var list []models.PlaybackProgress
	if err := query.Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch playback progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   list,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetProgress lấy tiến trình nghe của một episode
// GET /api/user/episodes/:id/progress
func GetProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	var progress models.PlaybackProgress
	if err := db.Where("user_id = ? AND episode_id = ?", userID, episodeID).
		Preload("Episode").
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No playback progress for this episode"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": progress})
}

// DeleteProgress xóa tiến trình nghe của một episode
// DELETE /api/user/episodes/:id/progress
func DeleteProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode_id"})
		return
	}

	result := db.Where("user_id = ? AND episode_id = ?", userID, episodeID).
		Delete(&models.PlaybackProgress{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete progress"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No progress found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Playback progress deleted"})
}

// ClearAllProgress xóa toàn bộ tiến trình nghe của user
// DELETE /api/user/me/progress
func ClearAllProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.PlaybackProgress{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All playback progress cleared"})
}

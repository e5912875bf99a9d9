package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
	"github.com/vnkhanh/podstation-backend/services"
	"github.com/vnkhanh/podstation-backend/utils"
)

func FormatSecondsToHHMMSS(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// POST /api/user/podcasts/:id/episodes — tạo episode với audio upload
func CreateEpisode(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Podcast ID không hợp lệ"})
		return
	}

	// Episode phải thuộc một podcast tồn tại, và chỉ chủ sở hữu được thêm
	var podcast models.Podcast
	if err := db.First(&podcast, "id = ?", podcastID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		return
	}
	if podcast.AuthorID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ sở hữu podcast này"})
		return
	}

	// === 1 Validate các trường text ===
	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề bắt buộc"})
		return
	}
	if len(title) > maxTitleLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề tối đa 200 ký tự"})
		return
	}
	if len(description) > maxDescriptionLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mô tả tối đa 5000 ký tự"})
		return
	}

	// Ngày phát hành: RFC3339, mặc định là bây giờ
	publishedAt := time.Now()
	if p := c.PostForm("published_at"); p != "" {
		parsed, err := time.Parse(time.RFC3339, p)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "published_at không hợp lệ (RFC3339)"})
			return
		}
		publishedAt = parsed
	}

	// === 2 Validate file audio trước khi upload ===
	audioFile, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file audio"})
		return
	}
	if err := CheckAudioUpload(audioFile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// === 3 Tính thời lượng (decode MP3, lỗi thì ước lượng theo size) ===
	durationSec := services.EpisodeDurationSeconds(audioFile)

	// === 4 Upload audio ===
	audioURL, err := uploadFile(audioFile, utils.BucketAudio, uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload file audio", "details": err.Error()})
		return
	}

	// === 5 Tạo episode mới ===
	episode := models.Episode{
		ID:          uuid.New(),
		PodcastID:   podcast.ID,
		Title:       title,
		Description: description,
		AudioURL:    audioURL,
		AudioBytes:  audioFile.Size,
		DurationSec: durationSec,
		PublishedAt: publishedAt,
	}

	if err := db.Create(&episode).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo episode", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo episode thành công",
		"episode": episode,
	})
}

// GET /api/episodes/:id — dữ liệu cho player: episode + podcast cha
// Nếu có user đăng nhập thì kèm trạng thái yêu thích
func GetEpisodeByID(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID không hợp lệ"})
		return
	}

	var episode models.Episode
	if err := db.
		Preload("Podcast").
		Preload("Podcast.Author").
		First(&episode, "id = ?", episodeID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy episode"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi truy vấn dữ liệu"})
		}
		return
	}

	isFavorite := false
	if userIDStr := c.GetString("user_id"); userIDStr != "" {
		var fav models.Favorite
		if err := db.Where("user_id = ? AND episode_id = ?", userIDStr, episodeID).
			First(&fav).Error; err == nil {
			isFavorite = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Lỗi check favorite không chặn việc trả episode
			log.Printf("Không kiểm tra được favorite (user=%s, episode=%s): %v", userIDStr, episodeID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":          episode,
		"duration_text": FormatSecondsToHHMMSS(episode.DurationSec),
		"is_favorite":   isFavorite,
	})
}

// GET /api/podcasts/:id/episodes — episodes theo ngày phát hành giảm dần
func GetEpisodesByPodcast(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Podcast ID không hợp lệ"})
		return
	}

	var episodes []models.Episode
	if err := db.
		Where("podcast_id = ?", podcastID).
		Order("published_at DESC").
		Find(&episodes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách episode"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  episodes,
		"total": len(episodes),
	})
}

// DELETE /api/user/episodes/:id — chỉ chủ podcast cha
func DeleteEpisode(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID không hợp lệ"})
		return
	}

	var episode models.Episode
	if err := db.Preload("Podcast").First(&episode, "id = ?", episodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy episode"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB", "details": err.Error()})
		}
		return
	}

	if episode.Podcast.AuthorID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ sở hữu podcast này"})
		return
	}

	// Xóa audio trên storage trước
	if episode.AudioURL != "" {
		if err := deleteFile(episode.AudioURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa file audio", "details": err.Error()})
			return
		}
	}

	tx := db.Begin()
	if err := tx.Where("episode_id = ?", episode.ID).Delete(&models.Favorite{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa favorites", "details": err.Error()})
		return
	}
	if err := tx.Where("episode_id = ?", episode.ID).Delete(&models.PlaybackProgress{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa tiến trình nghe", "details": err.Error()})
		return
	}
	if err := tx.Delete(&models.Episode{}, "id = ?", episode.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa episode", "details": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể commit thay đổi", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa episode thành công"})
}

package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
	"github.com/vnkhanh/podstation-backend/utils"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

// POST /api/user/podcasts — tạo podcast với ảnh bìa upload
func CreatePodcast(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
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

	// === 2 Validate ảnh bìa trước khi upload ===
	coverFile, err := c.FormFile("cover_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu ảnh bìa"})
		return
	}
	if err := CheckImageUpload(coverFile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// === 3 Upload ảnh bìa ===
	coverURL, err := uploadFile(coverFile, utils.BucketCovers, uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh bìa", "details": err.Error()})
		return
	}

	// === 4 Tạo podcast mới ===
	podcast := models.Podcast{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		CoverURL:    coverURL,
		AuthorID:    userUUID,
	}

	if err := db.Create(&podcast).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo podcast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo podcast thành công",
		"podcast": podcast,
	})
}

// GET /api/podcasts — trang khám phá, mới nhất trước
func GetPodcasts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Podcast{})

	// --- Tìm kiếm theo tiêu đề / mô tả ---
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		likeSearch := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", likeSearch, likeSearch)
	}

	// --- Phân trang ---
	page := 1
	limit := 10
	if p := c.Query("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
	}
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}
	offset := (page - 1) * limit

	var total int64
	query.Count(&total)

	// --- Sắp xếp ---
	switch c.DefaultQuery("sort", "latest") {
	case "popular":
		query = query.Order("subscriber_count DESC, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var podcasts []models.Podcast
	if err := query.
		Preload("Author").
		Offset(offset).Limit(limit).
		Find(&podcasts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách podcast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       podcasts,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GET /api/podcasts/:id — chi tiết podcast kèm tác giả và episodes
func GetPodcastByID(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Podcast ID không hợp lệ"})
		return
	}

	var podcast models.Podcast
	if err := db.
		Preload("Author").
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("published_at DESC")
		}).
		First(&podcast, "id = ?", podcastID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi truy vấn dữ liệu"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": podcast})
}

// GET /api/user/me/podcasts — dashboard của tác giả, mới nhất trước
func GetMyPodcasts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	var podcasts []models.Podcast
	if err := db.
		Where("author_id = ?", userUUID).
		Order("created_at DESC").
		Find(&podcasts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách podcast"})
		return
	}

	// Kết quả rỗng trả list rỗng, client hiển thị empty-state
	c.JSON(http.StatusOK, gin.H{
		"data":  podcasts,
		"total": len(podcasts),
	})
}

// PUT /api/user/podcasts/:id — cập nhật metadata (chỉ chủ sở hữu)
func UpdatePodcast(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Podcast ID không hợp lệ"})
		return
	}

	var podcast models.Podcast
	if err := db.First(&podcast, "id = ?", podcastID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		return
	}

	if podcast.AuthorID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ sở hữu podcast này"})
		return
	}

	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		if len(title) > maxTitleLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề tối đa 200 ký tự"})
			return
		}
		podcast.Title = title
		podcast.Slug = slug.Make(title)
	}
	if description := c.PostForm("description"); description != "" {
		if len(description) > maxDescriptionLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mô tả tối đa 5000 ký tự"})
			return
		}
		podcast.Description = description
	}

	// Upload ảnh bìa mới nếu có
	if coverFile, err := c.FormFile("cover_image"); err == nil {
		if err := CheckImageUpload(coverFile); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		coverURL, err := uploadFile(coverFile, utils.BucketCovers, uuid.New().String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh bìa", "details": err.Error()})
			return
		}
		podcast.CoverURL = coverURL
	}

	if err := db.Save(&podcast).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật podcast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật podcast thành công",
		"podcast": podcast,
	})
}

// DELETE /api/user/podcasts/:id — chỉ chủ sở hữu, dọn cả file trên storage
func DeletePodcast(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Podcast ID không hợp lệ"})
		return
	}

	var podcast models.Podcast
	if err := db.Preload("Episodes").First(&podcast, "id = ?", podcastID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB", "details": err.Error()})
		}
		return
	}

	if podcast.AuthorID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ sở hữu podcast này"})
		return
	}

	// Xóa file trên Supabase trước: ảnh bìa + audio của từng episode
	if podcast.CoverURL != "" {
		if err := deleteFile(podcast.CoverURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa ảnh bìa", "details": err.Error()})
			return
		}
	}
	for _, ep := range podcast.Episodes {
		if ep.AudioURL == "" {
			continue
		}
		if err := deleteFile(ep.AudioURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa file audio", "details": err.Error()})
			return
		}
	}

	// Transaction xóa DB: favorites + progress của episodes, episodes, subscriptions, podcast
	tx := db.Begin()

	episodeIDs := make([]uuid.UUID, 0, len(podcast.Episodes))
	for _, ep := range podcast.Episodes {
		episodeIDs = append(episodeIDs, ep.ID)
	}

	if len(episodeIDs) > 0 {
		if err := tx.Where("episode_id IN ?", episodeIDs).Delete(&models.Favorite{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa favorites", "details": err.Error()})
			return
		}
		if err := tx.Where("episode_id IN ?", episodeIDs).Delete(&models.PlaybackProgress{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa tiến trình nghe", "details": err.Error()})
			return
		}
		if err := tx.Where("podcast_id = ?", podcast.ID).Delete(&models.Episode{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa episodes", "details": err.Error()})
			return
		}
	}

	if err := tx.Where("podcast_id = ?", podcast.ID).Delete(&models.Subscription{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa subscriptions", "details": err.Error()})
		return
	}

	if err := tx.Delete(&models.Podcast{}, "id = ?", podcast.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa podcast", "details": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể commit thay đổi", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa podcast thành công"})
}

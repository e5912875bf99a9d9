package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
)

// -----------------------------
// Struct trả về
// -----------------------------
type SearchFullResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"` // podcast | episode
	Description string `json:"description,omitempty"`
	PodcastID   string `json:"podcast_id,omitempty"` // chỉ có với episode
}

type SearchFullResponse struct {
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Results []SearchFullResult `json:"results"`
}

type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"` // podcast | episode
}

// -----------------------------
// Search Full (trang tìm kiếm)
// -----------------------------
func SearchFullHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query không được để trống"})
			return
		}

		// Phân trang
		page := 1
		perPage := 10
		if p := c.Query("page"); p != "" {
			if val, err := strconv.Atoi(p); err == nil && val > 0 {
				page = val
			}
		}
		if pp := c.Query("per_page"); pp != "" {
			if val, err := strconv.Atoi(pp); err == nil && val > 0 {
				perPage = val
			}
		}
		offset := (page - 1) * perPage

		like := "%" + strings.ToLower(query) + "%"

		var podcasts []models.Podcast
		var episodes []models.Episode
		var totalPodcasts, totalEpisodes int64

		// Tìm podcasts
		podcastQuery := db.Model(&models.Podcast{}).
			Where("LOWER(title) LIKE ?", like)
		podcastQuery.Count(&totalPodcasts)
		podcastQuery.Offset(offset).Limit(perPage).Find(&podcasts)

		// Tìm episodes
		episodeQuery := db.Model(&models.Episode{}).
			Where("LOWER(title) LIKE ?", like)
		episodeQuery.Count(&totalEpisodes)
		episodeQuery.Offset(offset).Limit(perPage).Find(&episodes)

		total := totalPodcasts + totalEpisodes

		var results []SearchFullResult
		for _, p := range podcasts {
			results = append(results, SearchFullResult{
				ID:          p.ID.String(),
				Title:       p.Title,
				Type:        "podcast",
				Description: p.Description,
			})
		}
		for _, e := range episodes {
			results = append(results, SearchFullResult{
				ID:        e.ID.String(),
				Title:     e.Title,
				Type:      "episode",
				PodcastID: e.PodcastID.String(),
			})
		}

		c.JSON(http.StatusOK, SearchFullResponse{
			Total:   total,
			Page:    page,
			PerPage: perPage,
			Results: results,
		})
	}
}

// -----------------------------
// Search Autocomplete (gợi ý khi nhập)
// -----------------------------
func SearchAutocomplete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query không được để trống"})
			return
		}

		limit := 10
		if l := c.Query("limit"); l != "" {
			if val, err := strconv.Atoi(l); err == nil && val > 0 {
				limit = val
			}
		}

		like := "%" + strings.ToLower(query) + "%"

		var podcasts []models.Podcast
		var episodes []models.Episode

		if err := db.Select("id, title").
			Where("LOWER(title) LIKE ?", like).
			Limit(limit).
			Find(&podcasts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm podcast"})
			return
		}

		if err := db.Select("id, title, podcast_id").
			Where("LOWER(title) LIKE ?", like).
			Limit(limit).
			Find(&episodes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm episode"})
			return
		}

		var results []SearchResult
		for _, p := range podcasts {
			results = append(results, SearchResult{
				ID:    p.ID.String(),
				Title: p.Title,
				Type:  "podcast",
			})
		}
		for _, e := range episodes {
			results = append(results, SearchResult{
				ID:    e.ID.String(),
				Title: e.Title,
				Type:  "episode",
			})
		}

		c.JSON(http.StatusOK, results)
	}
}

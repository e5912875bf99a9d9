package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/models"
	"github.com/vnkhanh/podstation-backend/utils"
)

// GET /api/user/me
func GetMe(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Người dùng không tồn tại"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"avatar_url": user.AvatarURL,
		"is_creator": user.IsCreator,
		"created_at": user.CreatedAt,
	})
}

// PUT /api/user/me — cập nhật username / avatar
func UpdateMe(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Người dùng không tồn tại"})
		return
	}

	if username := strings.TrimSpace(c.PostForm("username")); username != "" {
		// Username phải duy nhất
		var count int64
		db.Model(&models.User{}).
			Where("username = ? AND id != ?", username, user.ID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username đã được sử dụng"})
			return
		}
		user.Username = username
	}

	// Upload avatar mới nếu có
	if avatarFile, err := c.FormFile("avatar"); err == nil {
		if err := CheckImageUpload(avatarFile); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		avatarURL, err := uploadFile(avatarFile, utils.BucketAvatars, uuid.New().String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload avatar", "details": err.Error()})
			return
		}
		user.AvatarURL = avatarURL
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật người dùng"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật thành công",
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"avatar_url": user.AvatarURL,
			"is_creator": user.IsCreator,
		},
	})
}

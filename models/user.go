package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:(gen_random_uuid());primaryKey" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	IsCreator bool      `gorm:"default:false" json:"is_creator"` // cờ metadata, không chặn việc tạo podcast
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Podcasts      []Podcast      `gorm:"foreignKey:AuthorID" json:"podcasts,omitempty"`
	Subscriptions []Subscription `json:"subscriptions,omitempty"`
	Favorites     []Favorite     `json:"favorites,omitempty"`
}

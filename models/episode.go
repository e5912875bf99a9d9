package models

import (
	"time"

	"github.com/google/uuid"
)

type Episode struct {
	ID            uuid.UUID `gorm:"type:uuid;default:(gen_random_uuid());primaryKey" json:"id"`
	PodcastID     uuid.UUID `gorm:"type:uuid;not null;index" json:"podcast_id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	AudioURL      string    `gorm:"type:text;not null" json:"audio_url"`
	AudioBytes    int64     `json:"audio_bytes"`
	DurationSec   int       `gorm:"not null" json:"duration_sec"`
	FavoriteCount int       `gorm:"default:0" json:"favorite_count"`
	PublishedAt   time.Time `gorm:"index" json:"published_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Podcast Podcast `gorm:"foreignKey:PodcastID;constraint:OnDelete:CASCADE" json:"podcast,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Podcast struct {
	ID              uuid.UUID `gorm:"type:uuid;default:(gen_random_uuid());primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Slug            string    `gorm:"size:200;index" json:"slug"`
	Description     string    `gorm:"type:text" json:"description"`
	CoverURL        string    `gorm:"type:text;not null" json:"cover_url"`
	AuthorID        uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	SubscriberCount int       `gorm:"default:0" json:"subscriber_count"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Episodes []Episode `gorm:"foreignKey:PodcastID" json:"episodes,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite là join row user-episode, duy nhất theo cặp (composite PK)
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	EpisodeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"episode_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User    User    `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Episode Episode `gorm:"constraint:OnDelete:CASCADE;" json:"episode,omitempty"`
}

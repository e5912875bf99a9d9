package models

import (
	"time"

	"github.com/google/uuid"
)

// Vị trí nghe của user trên từng episode
type PlaybackProgress struct {
	ID uuid.UUID `gorm:"type:uuid;default:(gen_random_uuid());primaryKey" json:"id"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_episode" json:"user_id"`
	EpisodeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_episode" json:"episode_id"`

	PositionSec     int        `json:"position_sec"` // Vị trí nghe cuối (giây)
	DurationSec     int        `json:"duration_sec"` // Tổng thời lượng episode (giây)
	Completed       bool       `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastListenedAt  time.Time  `gorm:"autoUpdateTime" json:"last_listened_at"`
	FirstListenedAt time.Time  `gorm:"autoCreateTime" json:"first_listened_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Episode Episode `gorm:"foreignKey:EpisodeID;constraint:OnDelete:CASCADE" json:"episode"`
}

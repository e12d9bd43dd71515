package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the creator identity of record. Identity is issued upstream and
// arrives as JWT claims; the row exists so wallet links and collections have
// a stable local anchor, and is upserted from the claims on first link.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Handle      string     `gorm:"column:handle;type:text;not null;uniqueIndex"`
	DisplayName string     `gorm:"column:display_name;not null"`
	Bio         *string    `gorm:"column:bio"`
	AvatarURL   *string    `gorm:"column:avatar_url"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	LastSeenAt  *time.Time `gorm:"column:last_seen_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

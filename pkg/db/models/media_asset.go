package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// MediaAsset tracks one uploaded object through its lifecycle: staged while a
// draft owns it, stored once promoted at submission, released when the staged
// object was superseded or the draft was torn down.
type MediaAsset struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index"`
	Slot       enums.MediaSlot   `gorm:"column:slot;type:media_slot;not null"`
	Bucket     string            `gorm:"column:bucket;not null"`
	ObjectKey  string            `gorm:"column:object_key;not null;uniqueIndex"`
	PublicURL  *string           `gorm:"column:public_url"`
	FileName   string            `gorm:"column:file_name;not null"`
	MimeType   string            `gorm:"column:mime_type;not null"`
	SizeBytes  int64             `gorm:"column:size_bytes;not null"`
	Status     enums.MediaStatus `gorm:"column:status;type:media_status;not null;default:'staged'"`
	ReleasedAt *time.Time        `gorm:"column:released_at"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SecuritySignal records non-blocking security observations, such as a
// creator attempting a supply above the review threshold.
type SecuritySignal struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      string          `gorm:"column:kind;not null"`
	Details   json.RawMessage `gorm:"column:details;type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

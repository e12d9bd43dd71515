package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// Draft is the persisted wizard draft. One active draft per owner and kind;
// the payload column carries the full in-progress record as JSONB.
type Draft struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID            uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index:idx_drafts_owner_kind,unique"`
	Kind               enums.DraftKind  `gorm:"column:kind;type:draft_kind;not null;index:idx_drafts_owner_kind,unique"`
	Step               enums.WizardStep `gorm:"column:step;not null"`
	Payload            json.RawMessage  `gorm:"column:payload;type:jsonb;not null;default:'{}'"`
	SeededCollectionID *uuid.UUID       `gorm:"column:seeded_collection_id;type:uuid"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

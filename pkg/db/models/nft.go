package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/types"
)

// NFT is the server-confirmed item record, optionally belonging to a
// collection.
type NFT struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CollectionID    *uuid.UUID          `gorm:"column:collection_id;type:uuid;index"`
	CreatorID       uuid.UUID           `gorm:"column:creator_id;type:uuid;not null;index"`
	Name            string              `gorm:"column:name;not null"`
	Description     string              `gorm:"column:description;not null;default:''"`
	MediaURL        string              `gorm:"column:media_url;not null"`
	CoverURL        string              `gorm:"column:cover_url;not null"`
	Attributes      types.AttributeList `gorm:"column:attributes;type:jsonb;not null;default:'[]'"`
	ExplicitContent bool                `gorm:"column:explicit_content;not null;default:false"`
	MintAddress     *string             `gorm:"column:mint_address;uniqueIndex"`
	MintError       *string             `gorm:"column:mint_error"`
	ListImmediately bool                `gorm:"column:list_immediately;not null;default:false"`
	ListingPrice    decimal.Decimal     `gorm:"column:listing_price;type:numeric(20,9);not null;default:0"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// Listing is one marketplace sale offer for an NFT.
type Listing struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NFTID     uuid.UUID           `gorm:"column:nft_id;type:uuid;not null;index"`
	SellerID  uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(20,9);not null"`
	Currency  string              `gorm:"column:currency;not null;default:'ANIME'"`
	Status    enums.ListingStatus `gorm:"column:status;type:listing_status;not null;default:'active'"`
	NFT       *NFT                `gorm:"foreignKey:NFTID"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

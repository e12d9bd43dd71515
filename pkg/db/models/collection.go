package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// Collection is the server-confirmed collection record. Rows only exist after
// off-chain persistence succeeded; the mint address stays null until the
// on-chain mint lands.
type Collection struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID          uuid.UUID                `gorm:"column:creator_id;type:uuid;not null;index"`
	Name               string                   `gorm:"column:name;not null"`
	Symbol             string                   `gorm:"column:symbol;not null"`
	Description        string                   `gorm:"column:description;not null;default:''"`
	OnChainDescription string                   `gorm:"column:on_chain_description;not null;default:''"`
	Category           enums.CollectionCategory `gorm:"column:category;type:collection_category;not null"`
	AvatarURL          string                   `gorm:"column:avatar_url;not null"`
	BannerURL          *string                  `gorm:"column:banner_url"`
	MintPrice          decimal.Decimal          `gorm:"column:mint_price;type:numeric(20,9);not null"`
	RoyaltyPercent     decimal.Decimal          `gorm:"column:royalty_percent;type:numeric(5,2);not null"`
	SupplyMode         enums.SupplyMode         `gorm:"column:supply_mode;type:supply_mode;not null"`
	MaxSupply          int64                    `gorm:"column:max_supply;not null;default:0"`
	TreasuryWallet     string                   `gorm:"column:treasury_wallet;not null"`
	ExplicitContent    bool                     `gorm:"column:explicit_content;not null;default:false"`
	PrimarySalesOn     bool                     `gorm:"column:primary_sales_enabled;not null;default:true"`
	WhitelistEnabled   bool                     `gorm:"column:whitelist_enabled;not null;default:false"`
	MintEndAt          *time.Time               `gorm:"column:mint_end_at"`
	LockedFields       pq.StringArray           `gorm:"column:locked_fields;type:text[];not null;default:ARRAY[]::text[]"`
	MintAddress        *string                  `gorm:"column:collection_mint_address;uniqueIndex"`
	Verified           bool                     `gorm:"column:verified;not null;default:false"`
	MintError          *string                  `gorm:"column:mint_error"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// IsMinted reports whether the collection has an on-chain mint address, which
// freezes its immutable core.
func (c *Collection) IsMinted() bool {
	return c != nil && c.MintAddress != nil && *c.MintAddress != ""
}

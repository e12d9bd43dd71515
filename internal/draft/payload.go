package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/enums"
	"github.com/animetoken/anime-token-backend/pkg/types"
)

// Numeric input bounds. Committed values never leave these ranges.
var (
	priceMin   = decimal.Zero
	priceMax   = decimal.NewFromInt(1_000_000_000)
	royaltyMin = decimal.Zero
	royaltyMax = decimal.NewFromInt(50)
	supplyMin  = decimal.Zero
	supplyMax  = decimal.NewFromInt(1_000_000_000)
)

// LargeSupplyThreshold is the supply above which a submission is recorded as
// a security signal for review. It never blocks the submission.
var LargeSupplyThreshold = decimal.NewFromInt(10_000)

// Payload is the full wizard draft record, a union over both draft kinds.
// Numeric inputs keep the raw editable string next to the committed value so
// partially typed input survives navigation.
type Payload struct {
	Name               string                   `json:"name"`
	Symbol             string                   `json:"symbol"`
	Description        string                   `json:"description"`
	OnChainDescription string                   `json:"on_chain_description"`
	Category           enums.CollectionCategory `json:"category"`
	AvatarAssetID      *uuid.UUID               `json:"avatar_asset_id,omitempty"`
	BannerAssetID      *uuid.UUID               `json:"banner_asset_id,omitempty"`
	MintPrice          types.NumericField       `json:"mint_price"`
	RoyaltyPercent     types.NumericField       `json:"royalty_percent"`
	SupplyMode         enums.SupplyMode         `json:"supply_mode"`
	MaxSupply          types.NumericField       `json:"max_supply"`
	TreasuryWallet     string                   `json:"treasury_wallet"`
	ExplicitContent    bool                     `json:"explicit_content"`
	PrimarySalesOn     bool                     `json:"primary_sales_enabled"`
	WhitelistEnabled   bool                     `json:"whitelist_enabled"`
	MintEndAt          *time.Time               `json:"mint_end_at,omitempty"`
	MintNow            bool                     `json:"mint_now"`
	LockedFields       []string                 `json:"locked_fields"`
	ChainLocked        bool                     `json:"chain_locked"`

	CollectionID     *uuid.UUID          `json:"collection_id,omitempty"`
	CollectionLocked bool                `json:"collection_locked"`
	PrimaryAssetID   *uuid.UUID          `json:"primary_asset_id,omitempty"`
	CoverAssetID     *uuid.UUID          `json:"cover_asset_id,omitempty"`
	Attributes       types.AttributeList `json:"attributes"`
	ListImmediately  bool                `json:"list_immediately"`
	ListingPrice     types.NumericField  `json:"listing_price"`
}

// Patch carries a partial update. Nil pointers mean "leave untouched".
// Numeric fields arrive as raw strings; the commit clamp runs on apply.
// Blur names numeric fields whose raw string should be reconciled to the
// committed value, mirroring input blur.
type Patch struct {
	Name               *string                   `json:"name,omitempty"`
	Symbol             *string                   `json:"symbol,omitempty"`
	Description        *string                   `json:"description,omitempty"`
	OnChainDescription *string                   `json:"on_chain_description,omitempty"`
	Category           *enums.CollectionCategory `json:"category,omitempty"`
	AvatarAssetID      *uuid.UUID                `json:"avatar_asset_id,omitempty"`
	BannerAssetID      *uuid.UUID                `json:"banner_asset_id,omitempty"`
	MintPrice          *string                   `json:"mint_price,omitempty"`
	RoyaltyPercent     *string                   `json:"royalty_percent,omitempty"`
	SupplyMode         *enums.SupplyMode         `json:"supply_mode,omitempty"`
	MaxSupply          *string                   `json:"max_supply,omitempty"`
	TreasuryWallet     *string                   `json:"treasury_wallet,omitempty"`
	ExplicitContent    *bool                     `json:"explicit_content,omitempty"`
	PrimarySalesOn     *bool                     `json:"primary_sales_enabled,omitempty"`
	WhitelistEnabled   *bool                     `json:"whitelist_enabled,omitempty"`
	MintEndAt          *time.Time                `json:"mint_end_at,omitempty"`
	ClearMintEnd       bool                      `json:"clear_mint_end,omitempty"`
	MintNow            *bool                     `json:"mint_now,omitempty"`

	CollectionID    *uuid.UUID           `json:"collection_id,omitempty"`
	PrimaryAssetID  *uuid.UUID           `json:"primary_asset_id,omitempty"`
	CoverAssetID    *uuid.UUID           `json:"cover_asset_id,omitempty"`
	Attributes      *types.AttributeList `json:"attributes,omitempty"`
	ListImmediately *bool                `json:"list_immediately,omitempty"`
	ListingPrice    *string              `json:"listing_price,omitempty"`

	Blur []string `json:"blur,omitempty"`
}

// NewPayload returns the blank draft record with field defaults.
func NewPayload() Payload {
	return Payload{
		Category:       enums.CollectionCategoryArt,
		SupplyMode:     enums.SupplyModeFixed,
		PrimarySalesOn: true,
		MintPrice:      types.FromDecimal(decimal.Zero),
		RoyaltyPercent: types.FromDecimal(decimal.Zero),
		MaxSupply:      types.FromDecimal(decimal.Zero),
		ListingPrice:   types.FromDecimal(decimal.Zero),
		LockedFields:   []string{},
		Attributes:     types.AttributeList{},
	}
}

// IsLocked reports whether a field may not be patched: either the creator
// locked it, or the record minted and the field belongs to the immutable core.
func (p Payload) IsLocked(field string, chainLocked bool) bool {
	if chainLocked && enums.LockableField(field).IsChainLocked() {
		return true
	}
	for _, locked := range p.LockedFields {
		if locked == field {
			return true
		}
	}
	return false
}

// MintEndValid reports whether the configured mint end, when set, is at
// least one hour in the future.
func (p Payload) MintEndValid(now time.Time) bool {
	if p.MintEndAt == nil {
		return true
	}
	return p.MintEndAt.After(now.Add(time.Hour))
}

// Apply shallow-merges the patch into the payload and returns the media
// asset IDs the patch superseded, for the caller to release. Locked fields
// are skipped silently; supply_mode=open always forces the unlimited
// sentinel.
func (p *Payload) Apply(patch Patch, chainLocked bool) []uuid.UUID {
	var released []uuid.UUID

	setString := func(field string, dst *string, src *string) {
		if src != nil && !p.IsLocked(field, chainLocked) {
			*dst = *src
		}
	}
	setBool := func(field string, dst *bool, src *bool) {
		if src != nil && !p.IsLocked(field, chainLocked) {
			*dst = *src
		}
	}

	setString(string(enums.FieldName), &p.Name, patch.Name)
	setString(string(enums.FieldSymbol), &p.Symbol, patch.Symbol)
	setString(string(enums.FieldDescription), &p.Description, patch.Description)
	if patch.OnChainDescription != nil {
		p.OnChainDescription = *patch.OnChainDescription
	}
	if patch.Category != nil && patch.Category.IsValid() {
		p.Category = *patch.Category
	}
	setString(string(enums.FieldTreasuryWallet), &p.TreasuryWallet, patch.TreasuryWallet)
	setBool(string(enums.FieldExplicitContent), &p.ExplicitContent, patch.ExplicitContent)
	setBool(string(enums.FieldPrimarySales), &p.PrimarySalesOn, patch.PrimarySalesOn)
	setBool(string(enums.FieldWhitelist), &p.WhitelistEnabled, patch.WhitelistEnabled)
	if patch.MintNow != nil {
		p.MintNow = *patch.MintNow
	}

	if !p.IsLocked(string(enums.FieldMintEndAt), chainLocked) {
		if patch.ClearMintEnd {
			p.MintEndAt = nil
		} else if patch.MintEndAt != nil {
			end := *patch.MintEndAt
			p.MintEndAt = &end
		}
	}

	if patch.MintPrice != nil && !p.IsLocked(string(enums.FieldMintPrice), chainLocked) {
		p.MintPrice = commitRaw(*patch.MintPrice, priceMin, priceMax)
	}
	if patch.RoyaltyPercent != nil && !p.IsLocked(string(enums.FieldRoyaltyPercent), chainLocked) {
		p.RoyaltyPercent = commitRaw(*patch.RoyaltyPercent, royaltyMin, royaltyMax)
	}
	if patch.MaxSupply != nil && !p.IsLocked(string(enums.FieldMaxSupply), chainLocked) {
		p.MaxSupply = commitRaw(*patch.MaxSupply, supplyMin, supplyMax)
	}
	if patch.SupplyMode != nil && patch.SupplyMode.IsValid() && !p.IsLocked(string(enums.FieldSupplyMode), chainLocked) {
		p.SupplyMode = *patch.SupplyMode
	}
	if p.SupplyMode == enums.SupplyModeOpen {
		// open supply has no cap; the sentinel is the stored value
		p.MaxSupply = types.NumericField{Raw: "", Committed: decimal.NewFromInt(enums.UnlimitedSupply)}
	}

	released = append(released, p.replaceSlot(&p.AvatarAssetID, patch.AvatarAssetID)...)
	released = append(released, p.replaceSlot(&p.BannerAssetID, patch.BannerAssetID)...)
	released = append(released, p.replaceSlot(&p.PrimaryAssetID, patch.PrimaryAssetID)...)
	released = append(released, p.replaceSlot(&p.CoverAssetID, patch.CoverAssetID)...)

	if patch.CollectionID != nil && !p.CollectionLocked {
		if *patch.CollectionID == uuid.Nil {
			p.CollectionID = nil
		} else {
			id := *patch.CollectionID
			p.CollectionID = &id
		}
	}
	if patch.Attributes != nil {
		p.Attributes = *patch.Attributes
	}
	if patch.ListImmediately != nil {
		p.ListImmediately = *patch.ListImmediately
	}
	if patch.ListingPrice != nil {
		p.ListingPrice = commitRaw(*patch.ListingPrice, priceMin, priceMax)
	}

	for _, field := range patch.Blur {
		p.blurField(field)
	}

	return released
}

func (p *Payload) replaceSlot(current **uuid.UUID, next *uuid.UUID) []uuid.UUID {
	if next == nil {
		return nil
	}
	var released []uuid.UUID
	if *current != nil && **current != *next {
		released = append(released, **current)
	}
	if *next == uuid.Nil {
		*current = nil
	} else {
		id := *next
		*current = &id
	}
	return released
}

func (p *Payload) blurField(field string) {
	switch field {
	case string(enums.FieldMintPrice):
		p.MintPrice = p.MintPrice.CommitBounded(priceMin, priceMax)
	case string(enums.FieldRoyaltyPercent):
		p.RoyaltyPercent = p.RoyaltyPercent.CommitBounded(royaltyMin, royaltyMax)
	case string(enums.FieldMaxSupply):
		if p.SupplyMode != enums.SupplyModeOpen {
			p.MaxSupply = p.MaxSupply.CommitBounded(supplyMin, supplyMax)
		}
	case "listing_price":
		p.ListingPrice = p.ListingPrice.CommitBounded(priceMin, priceMax)
	}
}

// assetIDs lists every media asset the draft currently references.
func (p Payload) assetIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, ref := range []*uuid.UUID{p.AvatarAssetID, p.BannerAssetID, p.PrimaryAssetID, p.CoverAssetID} {
		if ref != nil {
			ids = append(ids, *ref)
		}
	}
	return ids
}

func commitRaw(raw string, min, max decimal.Decimal) types.NumericField {
	return types.NumericField{
		Raw:       raw,
		Committed: types.Commit(raw, min, max),
	}
}

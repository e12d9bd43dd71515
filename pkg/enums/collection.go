package enums

import "fmt"

// CollectionCategory represents the browsable categories of the marketplace.
type CollectionCategory string

const (
	CollectionCategoryArt          CollectionCategory = "art"
	CollectionCategoryManga        CollectionCategory = "manga"
	CollectionCategoryGaming       CollectionCategory = "gaming"
	CollectionCategoryMusic        CollectionCategory = "music"
	CollectionCategoryCollectibles CollectionCategory = "collectibles"
	CollectionCategoryPhotography  CollectionCategory = "photography"
	CollectionCategoryUtility      CollectionCategory = "utility"
	CollectionCategoryOther        CollectionCategory = "other"
)

var validCollectionCategories = []CollectionCategory{
	CollectionCategoryArt,
	CollectionCategoryManga,
	CollectionCategoryGaming,
	CollectionCategoryMusic,
	CollectionCategoryCollectibles,
	CollectionCategoryPhotography,
	CollectionCategoryUtility,
	CollectionCategoryOther,
}

// String implements fmt.Stringer.
func (c CollectionCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CollectionCategory.
func (c CollectionCategory) IsValid() bool {
	for _, candidate := range validCollectionCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCollectionCategory converts raw input into a CollectionCategory.
func ParseCollectionCategory(value string) (CollectionCategory, error) {
	for _, candidate := range validCollectionCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collection category %q", value)
}

// SupplyMode declares whether a collection caps its mintable quantity.
type SupplyMode string

const (
	SupplyModeFixed SupplyMode = "fixed"
	SupplyModeOpen  SupplyMode = "open"
)

// UnlimitedSupply is the max-supply sentinel when the supply mode is open.
const UnlimitedSupply = 0

var validSupplyModes = []SupplyMode{SupplyModeFixed, SupplyModeOpen}

// String implements fmt.Stringer.
func (m SupplyMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known SupplyMode.
func (m SupplyMode) IsValid() bool {
	for _, candidate := range validSupplyModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseSupplyMode converts raw input into a SupplyMode.
func ParseSupplyMode(value string) (SupplyMode, error) {
	for _, candidate := range validSupplyModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supply mode %q", value)
}

// LockableField names a collection field a creator may freeze post-creation.
type LockableField string

const (
	FieldName            LockableField = "name"
	FieldSymbol          LockableField = "symbol"
	FieldDescription     LockableField = "description"
	FieldRoyaltyPercent  LockableField = "royalty_percent"
	FieldMintPrice       LockableField = "mint_price"
	FieldSupplyMode      LockableField = "supply_mode"
	FieldMaxSupply       LockableField = "max_supply"
	FieldTreasuryWallet  LockableField = "treasury_wallet"
	FieldMintEndAt       LockableField = "mint_end_at"
	FieldWhitelist       LockableField = "whitelist_enabled"
	FieldPrimarySales    LockableField = "primary_sales_enabled"
	FieldExplicitContent LockableField = "explicit_content"
)

var validLockableFields = []LockableField{
	FieldName,
	FieldSymbol,
	FieldDescription,
	FieldRoyaltyPercent,
	FieldMintPrice,
	FieldSupplyMode,
	FieldMaxSupply,
	FieldTreasuryWallet,
	FieldMintEndAt,
	FieldWhitelist,
	FieldPrimarySales,
	FieldExplicitContent,
}

// ChainLockedFields is the immutable core: once a collection has an on-chain
// mint address these fields can never be edited, independent of creator locks.
var ChainLockedFields = []LockableField{
	FieldName,
	FieldSymbol,
	FieldSupplyMode,
	FieldMaxSupply,
	FieldRoyaltyPercent,
	FieldTreasuryWallet,
	FieldPrimarySales,
}

// String implements fmt.Stringer.
func (f LockableField) String() string {
	return string(f)
}

// IsValid reports whether the value is a known LockableField.
func (f LockableField) IsValid() bool {
	for _, candidate := range validLockableFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsChainLocked reports whether the field belongs to the immutable core.
func (f LockableField) IsChainLocked() bool {
	for _, candidate := range ChainLockedFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseLockableField converts raw input into a LockableField.
func ParseLockableField(value string) (LockableField, error) {
	for _, candidate := range validLockableFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lockable field %q", value)
}

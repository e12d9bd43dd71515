package enums

import "fmt"

// ListingStatus tracks a marketplace listing's lifecycle.
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

var validListingStatuses = []ListingStatus{
	ListingStatusActive,
	ListingStatusSold,
	ListingStatusCancelled,
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListingStatus.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}

// ListingSort names the supported marketplace sort orders.
type ListingSort string

const (
	ListingSortRecent    ListingSort = "recent"
	ListingSortPriceAsc  ListingSort = "price_asc"
	ListingSortPriceDesc ListingSort = "price_desc"
)

var validListingSorts = []ListingSort{ListingSortRecent, ListingSortPriceAsc, ListingSortPriceDesc}

// String implements fmt.Stringer.
func (s ListingSort) String() string {
	return string(s)
}

// ParseListingSort converts raw input into a ListingSort, defaulting to recent.
func ParseListingSort(value string) (ListingSort, error) {
	if value == "" {
		return ListingSortRecent, nil
	}
	for _, candidate := range validListingSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing sort %q", value)
}

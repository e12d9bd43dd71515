package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/pagination"
)

// Sort names the browse orderings.
type Sort string

const (
	SortRecent    Sort = "recent"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// ParseSort validates raw sort input, defaulting to recent.
func ParseSort(value string) (Sort, error) {
	switch Sort(value) {
	case "", SortRecent:
		return SortRecent, nil
	case SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	default:
		return "", fmt.Errorf("invalid sort %q", value)
	}
}

// Filter narrows the browse result set. Nil pointers mean "no constraint".
type Filter struct {
	CollectionID *uuid.UUID
	Category     *enums.CollectionCategory
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	VerifiedOnly bool
	Query        string
}

// BrowseInput is the full browse request.
type BrowseInput struct {
	Filter Filter
	Sort   string
	Limit  int
	Cursor string
}

// Page is one browse result page. NextCursor is empty on the last page.
type Page struct {
	Items      []models.Listing `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// Service exposes the marketplace browse surface.
type Service interface {
	Browse(ctx context.Context, input BrowseInput) (*Page, error)
}

type listingStore interface {
	Browse(ctx context.Context, filter Filter, sort Sort, cursor *pagination.Cursor, limit int) ([]models.Listing, error)
}

type service struct {
	repo listingStore
}

// NewService constructs the marketplace service.
func NewService(repo listingStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	return &service{repo: repo}, nil
}

// Browse validates the request, runs the cursor query, and encodes the
// continuation cursor when another page exists.
func (s *service) Browse(ctx context.Context, input BrowseInput) (*Page, error) {
	sort, err := ParseSort(input.Sort)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Filter.Category != nil && !input.Filter.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", *input.Filter.Category))
	}
	if input.Filter.PriceMin != nil && input.Filter.PriceMax != nil && input.Filter.PriceMin.GreaterThan(*input.Filter.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	filter := input.Filter
	filter.Query = strings.TrimSpace(filter.Query)

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.Browse(ctx, filter, sort, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: browse listings")
	}

	page := &Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		next := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		if sort == SortPriceAsc || sort == SortPriceDesc {
			next.Price = last.Price.String()
		}
		page.NextCursor = pagination.EncodeCursor(next)
	}
	return page, nil
}

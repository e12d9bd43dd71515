package marketplace

import (
	"context"

	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	"github.com/animetoken/anime-token-backend/pkg/pagination"
)

// Repository runs the browse queries over active listings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Browse returns active listings matching the filter, ordered by the sort key
// and resumed from the cursor. Rows come back limit-sized at most; the caller
// passes the buffered limit to detect a next page.
func (r *Repository) Browse(ctx context.Context, filter Filter, sort Sort, cursor *pagination.Cursor, limit int) ([]models.Listing, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Preload("NFT").
		Joins("JOIN nfts ON nfts.id = listings.nft_id").
		Where("listings.status = ?", enums.ListingStatusActive)

	if filter.CollectionID != nil {
		q = q.Where("nfts.collection_id = ?", *filter.CollectionID)
	}
	if filter.Category != nil || filter.VerifiedOnly {
		q = q.Joins("JOIN collections ON collections.id = nfts.collection_id")
		if filter.Category != nil {
			q = q.Where("collections.category = ?", *filter.Category)
		}
		if filter.VerifiedOnly {
			q = q.Where("collections.verified = TRUE")
		}
	}
	if filter.Query != "" {
		q = q.Where("nfts.name ILIKE ?", "%"+filter.Query+"%")
	}
	if filter.PriceMin != nil {
		q = q.Where("listings.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("listings.price <= ?", *filter.PriceMax)
	}

	switch sort {
	case SortPriceAsc:
		if cursor != nil {
			q = q.Where("(listings.price, listings.created_at, listings.id) > (?, ?, ?)", cursor.Price, cursor.CreatedAt, cursor.ID)
		}
		q = q.Order("listings.price ASC, listings.created_at ASC, listings.id ASC")
	case SortPriceDesc:
		if cursor != nil {
			q = q.Where("(listings.price, listings.created_at, listings.id) < (?, ?, ?)", cursor.Price, cursor.CreatedAt, cursor.ID)
		}
		q = q.Order("listings.price DESC, listings.created_at DESC, listings.id DESC")
	default:
		if cursor != nil {
			q = q.Where("(listings.created_at, listings.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
		q = q.Order("listings.created_at DESC, listings.id DESC")
	}

	var rows []models.Listing
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

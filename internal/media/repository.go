package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// Repository persists media asset lifecycle rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, asset *models.MediaAsset) (*models.MediaAsset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// FindOwned returns the asset only when it belongs to the given owner.
func (r *Repository) FindOwned(ctx context.Context, ownerID, assetID uuid.UUID) (*models.MediaAsset, error) {
	var row models.MediaAsset
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", assetID, ownerID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) MarkStored(ctx context.Context, assetID uuid.UUID, bucket, objectKey, publicURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Where("id = ?", assetID).
		Updates(map[string]any{
			"status":     enums.MediaStatusStored,
			"bucket":     bucket,
			"object_key": objectKey,
			"public_url": publicURL,
		}).Error
}

func (r *Repository) MarkReleased(ctx context.Context, assetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Where("id = ?", assetID).
		Updates(map[string]any{
			"status":      enums.MediaStatusReleased,
			"released_at": time.Now(),
		}).Error
}

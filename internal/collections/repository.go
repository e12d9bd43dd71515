package collections

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
)

// Repository persists server-confirmed collection records.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, row *models.Collection) (*models.Collection, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByID returns the collection or nil when it does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var row models.Collection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Collection, error) {
	var rows []models.Collection
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Save persists the full record.
func (r *Repository) Save(ctx context.Context, row *models.Collection) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// SetMintOutcome records the result of an on-chain mint attempt.
func (r *Repository) SetMintOutcome(ctx context.Context, id uuid.UUID, mintAddress *string, mintError *string, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"collection_mint_address": mintAddress,
			"mint_error":              mintError,
			"verified":                verified,
		}).Error
}

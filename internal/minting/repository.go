package minting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
)

// Repository persists NFT rows and security signals for the submission flow.
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

func (r *Repository) CreateNFT(ctx context.Context, row *models.NFT) (*models.NFT, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) FindNFT(ctx context.Context, id uuid.UUID) (*models.NFT, error) {
	var row models.NFT
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// SetNFTMintOutcome records the result of an on-chain item mint attempt.
func (r *Repository) SetNFTMintOutcome(ctx context.Context, id uuid.UUID, mintAddress *string, mintError *string) error {
	return r.db.WithContext(ctx).
		Model(&models.NFT{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"mint_address": mintAddress,
			"mint_error":   mintError,
		}).Error
}

func (r *Repository) CreateListing(ctx context.Context, row *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) CreateSecuritySignal(ctx context.Context, row *models.SecuritySignal) error {
	return r.db.WithContext(ctx).Create(row).Error
}

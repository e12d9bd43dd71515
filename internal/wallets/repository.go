package wallets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
)

// Repository persists users and their wallet links. Mutations that must land
// together take the caller's transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertUserTx anchors the identity row for the JWT subject. Existing rows
// are left untouched; identity fields are owned upstream.
func (r *Repository) UpsertUserTx(tx *gorm.DB, user *models.User) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(user).Error
}

func (r *Repository) CreateTx(tx *gorm.DB, link *models.WalletLink) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(link).Error
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletLink, error) {
	var rows []models.WalletLink
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("linked_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindPrimary returns the primary link for a user, or nil when none exists.
func (r *Repository) FindPrimary(ctx context.Context, userID uuid.UUID) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_primary", userID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *Repository) FindByAddress(ctx context.Context, address string) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// FindOwned returns the link only when it belongs to the user.
func (r *Repository) FindOwned(ctx context.Context, userID, linkID uuid.UUID) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", linkID, userID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *Repository) ClearPrimaryTx(tx *gorm.DB, userID uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.WalletLink{}).
		Where("user_id = ?", userID).
		Update("is_primary", false).Error
}

func (r *Repository) SetPrimaryTx(tx *gorm.DB, linkID uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.WalletLink{}).
		Where("id = ?", linkID).
		Update("is_primary", true).Error
}

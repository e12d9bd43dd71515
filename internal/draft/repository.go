package draft

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// Repository persists wizard drafts, one active row per owner and kind.
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

// Find returns the active draft for an owner and kind, or nil when none exists.
func (r *Repository) Find(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind) (*models.Draft, error) {
	var row models.Draft
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert inserts or replaces the active draft for its owner and kind.
func (r *Repository) Upsert(ctx context.Context, row *models.Draft) (*models.Draft, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"step", "payload", "seeded_collection_id", "updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Save persists changes to an existing draft row.
func (r *Repository) Save(ctx context.Context, row *models.Draft) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the active draft for an owner and kind.
func (r *Repository) Delete(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Delete(&models.Draft{}).Error
}

package collections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

// UpdateInput holds the editable collection fields. Nil pointers leave the
// field untouched; locked and chain-locked fields are rejected, not skipped,
// so the caller learns why the edit failed.
type UpdateInput struct {
	Name            *string
	Description     *string
	Category        *enums.CollectionCategory
	MintEndAt       *time.Time
	ClearMintEnd    bool
	WhitelistOn     *bool
	ExplicitContent *bool
}

// Service exposes collection reads and post-creation edits.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Collection, error)
	Update(ctx context.Context, creatorID, id uuid.UUID, input UpdateInput) (*models.Collection, error)
	LockFields(ctx context.Context, creatorID, id uuid.UUID, fields []string) (*models.Collection, error)
	UnlockFields(ctx context.Context, creatorID, id uuid.UUID, fields []string) (*models.Collection, error)
}

type store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Collection, error)
	Save(ctx context.Context, row *models.Collection) error
}

type service struct {
	repo store
}

// NewService constructs the collection service.
func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("collection repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load collection")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}
	return row, nil
}

func (s *service) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list collections")
	}
	return rows, nil
}

// Update edits the record while honoring creator locks and the chain-locked
// immutable core.
func (s *service) Update(ctx context.Context, creatorID, id uuid.UUID, input UpdateInput) (*models.Collection, error) {
	row, err := s.owned(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := s.ensureEditable(row, enums.FieldName); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		if err := s.ensureEditable(row, enums.FieldDescription); err != nil {
			return nil, err
		}
		row.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", *input.Category))
		}
		row.Category = *input.Category
	}
	if input.ClearMintEnd || input.MintEndAt != nil {
		if err := s.ensureEditable(row, enums.FieldMintEndAt); err != nil {
			return nil, err
		}
		if input.ClearMintEnd {
			row.MintEndAt = nil
		} else {
			if !input.MintEndAt.After(time.Now().Add(time.Hour)) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "mint end must be at least one hour from now")
			}
			end := *input.MintEndAt
			row.MintEndAt = &end
		}
	}
	if input.WhitelistOn != nil {
		if err := s.ensureEditable(row, enums.FieldWhitelist); err != nil {
			return nil, err
		}
		row.WhitelistEnabled = *input.WhitelistOn
	}
	if input.ExplicitContent != nil {
		if err := s.ensureEditable(row, enums.FieldExplicitContent); err != nil {
			return nil, err
		}
		row.ExplicitContent = *input.ExplicitContent
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save collection")
	}
	return row, nil
}

// LockFields freezes the named creator-lockable fields.
func (s *service) LockFields(ctx context.Context, creatorID, id uuid.UUID, fields []string) (*models.Collection, error) {
	row, err := s.owned(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}

	for _, raw := range fields {
		field, parseErr := enums.ParseLockableField(raw)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error())
		}
		if !contains(row.LockedFields, string(field)) {
			row.LockedFields = append(row.LockedFields, string(field))
		}
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save collection locks")
	}
	return row, nil
}

// UnlockFields releases creator locks. Chain locks never release.
func (s *service) UnlockFields(ctx context.Context, creatorID, id uuid.UUID, fields []string) (*models.Collection, error) {
	row, err := s.owned(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}

	for _, raw := range fields {
		field, parseErr := enums.ParseLockableField(raw)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error())
		}
		if row.IsMinted() && field.IsChainLocked() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is locked on chain and cannot be unlocked", field))
		}
		row.LockedFields = remove(row.LockedFields, string(field))
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save collection locks")
	}
	return row, nil
}

func (s *service) owned(ctx context.Context, creatorID, id uuid.UUID) (*models.Collection, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "collection belongs to another creator")
	}
	return row, nil
}

func (s *service) ensureEditable(row *models.Collection, field enums.LockableField) error {
	if row.IsMinted() && field.IsChainLocked() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is locked on chain", field))
	}
	if contains(row.LockedFields, string(field)) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is locked", field))
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func remove(values []string, target string) []string {
	out := values[:0]
	for _, value := range values {
		if value != target {
			out = append(out, value)
		}
	}
	return out
}

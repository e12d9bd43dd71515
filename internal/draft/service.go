package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/types"
)

// Service is the form state store: it owns the draft record and applies
// partial updates without validating them. Gating lives in the wizard
// package; this layer always accepts a patch.
type Service interface {
	Get(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*State, error)
	Patch(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, patch Patch) (*State, error)
	Reset(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*State, error)
	SetStep(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, step enums.WizardStep) (*State, error)
}

// State is a decoded draft row.
type State struct {
	Draft   *models.Draft
	Payload Payload
}

type collectionLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
}

type assetReleaser interface {
	Release(ctx context.Context, ownerID uuid.UUID, assetIDs ...uuid.UUID) error
}

type service struct {
	repo        *Repository
	collections collectionLoader
	releaser    assetReleaser
	logg        *logger.Logger
}

// NewService constructs the draft service.
func NewService(repo *Repository, collections collectionLoader, releaser assetReleaser, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	if collections == nil {
		return nil, fmt.Errorf("collection loader required")
	}
	if releaser == nil {
		return nil, fmt.Errorf("asset releaser required")
	}
	return &service{repo: repo, collections: collections, releaser: releaser, logg: logg}, nil
}

// Get returns the active draft, creating a blank one on first fetch. The
// seed collection only applies when the draft is being created.
func (s *service) Get(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*State, error) {
	row, err := s.repo.Find(ctx, ownerID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load draft")
	}
	if row != nil {
		return decodeState(row)
	}
	return s.create(ctx, ownerID, kind, seedCollectionID)
}

// Patch shallow-merges the partial update into the draft payload. It never
// validates and never fails on field content; superseded media previews are
// released as a side effect.
func (s *service) Patch(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, patch Patch) (*State, error) {
	state, err := s.Get(ctx, ownerID, kind, nil)
	if err != nil {
		return nil, err
	}

	released := state.Payload.Apply(patch, state.Payload.ChainLocked)
	if err := s.persistPayload(ctx, state); err != nil {
		return nil, err
	}
	s.release(ctx, ownerID, released)
	return state, nil
}

// Reset discards the draft and starts a blank one, releasing every staged
// preview the old draft held.
func (s *service) Reset(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*State, error) {
	existing, err := s.repo.Find(ctx, ownerID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load draft")
	}
	if existing != nil {
		if state, decErr := decodeState(existing); decErr == nil {
			s.release(ctx, ownerID, state.Payload.assetIDs())
		}
		if err := s.repo.Delete(ctx, ownerID, kind); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete draft")
		}
	}
	return s.create(ctx, ownerID, kind, seedCollectionID)
}

// SetStep moves the step pointer without touching the payload.
func (s *service) SetStep(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, step enums.WizardStep) (*State, error) {
	state, err := s.Get(ctx, ownerID, kind, nil)
	if err != nil {
		return nil, err
	}
	state.Draft.Step = step
	if err := s.repo.Save(ctx, state.Draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save draft step")
	}
	return state, nil
}

func (s *service) create(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*State, error) {
	payload := NewPayload()
	var seededID *uuid.UUID
	if seedCollectionID != nil && *seedCollectionID != uuid.Nil {
		parent, err := s.collections.FindByID(ctx, *seedCollectionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load seed collection")
		}
		if parent == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seed collection not found")
		}
		if parent.CreatorID != ownerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seed collection belongs to another creator")
		}
		seedPayload(&payload, kind, parent)
		id := parent.ID
		seededID = &id
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft payload")
	}
	row := &models.Draft{
		OwnerID:            ownerID,
		Kind:               kind,
		Step:               enums.FirstStep(kind),
		Payload:            raw,
		SeededCollectionID: seededID,
	}
	if _, err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create draft")
	}
	return &State{Draft: row, Payload: payload}, nil
}

func (s *service) persistPayload(ctx context.Context, state *State) error {
	raw, err := json.Marshal(state.Payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft payload")
	}
	state.Draft.Payload = raw
	if err := s.repo.Save(ctx, state.Draft); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save draft")
	}
	return nil
}

// release drops superseded previews. A failed release never fails the patch;
// orphaned staging objects are harmless and swept separately.
func (s *service) release(ctx context.Context, ownerID uuid.UUID, assetIDs []uuid.UUID) {
	if len(assetIDs) == 0 {
		return
	}
	if err := s.releaser.Release(ctx, ownerID, assetIDs...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("releasing %d superseded assets failed: %v", len(assetIDs), err))
	}
}

func decodeState(row *models.Draft) (*State, error) {
	payload := NewPayload()
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft payload")
		}
	}
	return &State{Draft: row, Payload: payload}, nil
}

func seedPayload(payload *Payload, kind enums.DraftKind, parent *models.Collection) {
	switch kind {
	case enums.DraftKindNFT:
		id := parent.ID
		payload.CollectionID = &id
		payload.CollectionLocked = true
		payload.ExplicitContent = parent.ExplicitContent
		payload.ListingPrice = types.FromDecimal(parent.MintPrice)
	case enums.DraftKindCollection:
		payload.Name = parent.Name
		payload.Symbol = parent.Symbol
		payload.Description = parent.Description
		payload.OnChainDescription = parent.OnChainDescription
		payload.Category = parent.Category
		payload.MintPrice = types.FromDecimal(parent.MintPrice)
		payload.RoyaltyPercent = types.FromDecimal(parent.RoyaltyPercent)
		payload.SupplyMode = parent.SupplyMode
		payload.MaxSupply = types.FromDecimal(decimal.NewFromInt(parent.MaxSupply))
		payload.TreasuryWallet = parent.TreasuryWallet
		payload.ExplicitContent = parent.ExplicitContent
		payload.PrimarySalesOn = parent.PrimarySalesOn
		payload.WhitelistEnabled = parent.WhitelistEnabled
		payload.MintEndAt = parent.MintEndAt
		payload.LockedFields = append([]string{}, parent.LockedFields...)
		payload.ChainLocked = parent.IsMinted()
	}
}

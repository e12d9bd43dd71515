package wizard

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

// stubDrafts keeps one in-memory draft per kind, mirroring the repository's
// one-active-draft rule.
type stubDrafts struct {
	states map[enums.DraftKind]*draft.State
}

func newStubDrafts() *stubDrafts {
	return &stubDrafts{states: map[enums.DraftKind]*draft.State{}}
}

func (s *stubDrafts) Get(_ context.Context, ownerID uuid.UUID, kind enums.DraftKind, _ *uuid.UUID) (*draft.State, error) {
	if state, ok := s.states[kind]; ok {
		return state, nil
	}
	state := &draft.State{
		Draft: &models.Draft{
			OwnerID: ownerID,
			Kind:    kind,
			Step:    enums.FirstStep(kind),
		},
		Payload: draft.NewPayload(),
	}
	s.states[kind] = state
	return state, nil
}

func (s *stubDrafts) Patch(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, patch draft.Patch) (*draft.State, error) {
	state, _ := s.Get(ctx, ownerID, kind, nil)
	state.Payload.Apply(patch, state.Payload.ChainLocked)
	return state, nil
}

func (s *stubDrafts) Reset(_ context.Context, ownerID uuid.UUID, kind enums.DraftKind, _ *uuid.UUID) (*draft.State, error) {
	state := &draft.State{
		Draft: &models.Draft{
			OwnerID: ownerID,
			Kind:    kind,
			Step:    enums.FirstStep(kind),
		},
		Payload: draft.NewPayload(),
	}
	s.states[kind] = state
	return state, nil
}

func (s *stubDrafts) SetStep(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, step enums.WizardStep) (*draft.State, error) {
	state, _ := s.Get(ctx, ownerID, kind, nil)
	state.Draft.Step = step
	return state, nil
}

func newTestService(t *testing.T) (Service, *stubDrafts) {
	t.Helper()
	drafts := newStubDrafts()
	svc, err := NewService(drafts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, drafts
}

func TestNextBlockedByGate(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	_, err := svc.Next(context.Background(), userID, enums.DraftKindCollection)
	if err == nil {
		t.Fatal("expected gate failure on empty draft")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNextAdvancesWhenGatePasses(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	name := "Neon Samurai"
	if _, err := svc.Patch(ctx, userID, enums.DraftKindCollection, draft.Patch{Name: &name}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	view, err := svc.Next(ctx, userID, enums.DraftKindCollection)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if view.Step != enums.StepSettings {
		t.Fatalf("expected settings step, got %s", view.Step)
	}
}

func TestNextFromReviewDemandsSubmit(t *testing.T) {
	svc, drafts := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	state, _ := drafts.Get(ctx, userID, enums.DraftKindCollection, nil)
	state.Draft.Step = enums.StepReview

	_, err := svc.Next(ctx, userID, enums.DraftKindCollection)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestBackNeverValidatesAndKeepsData(t *testing.T) {
	svc, drafts := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	state, _ := drafts.Get(ctx, userID, enums.DraftKindCollection, nil)
	state.Draft.Step = enums.StepSettings

	// put half-finished input on the current step, then walk back
	royalty := "7.5"
	if _, err := svc.Patch(ctx, userID, enums.DraftKindCollection, draft.Patch{RoyaltyPercent: &royalty}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	view, err := svc.Back(ctx, userID, enums.DraftKindCollection)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if view.Step != enums.StepBasics {
		t.Fatalf("expected basics step, got %s", view.Step)
	}
	if view.Payload.RoyaltyPercent.Raw != "7.5" {
		t.Fatalf("back must not lose entered data, got %q", view.Payload.RoyaltyPercent.Raw)
	}
}

func TestBackAtFirstStepStays(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	view, err := svc.Back(context.Background(), userID, enums.DraftKindNFT)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if view.Step != enums.StepUpload {
		t.Fatalf("expected to stay on the first step, got %s", view.Step)
	}
}

func TestStateReportsGates(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	view, err := svc.State(context.Background(), userID, enums.DraftKindCollection, nil)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	gate, ok := view.Gates[enums.StepBasics]
	if !ok {
		t.Fatal("expected basics gate in view")
	}
	if gate.Passed {
		t.Fatal("empty draft cannot pass the basics gate")
	}
}

package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

// View is the wizard state returned to the client: the step pointer, the
// full draft payload, and which forward gates currently pass.
type View struct {
	Kind      enums.DraftKind                 `json:"kind"`
	Step      enums.WizardStep                `json:"step"`
	StepIndex int                             `json:"step_index"`
	Steps     []enums.WizardStep              `json:"steps"`
	Payload   draft.Payload                   `json:"payload"`
	Gates     map[enums.WizardStep]GateResult `json:"gates"`
}

// Service owns the step pointer. Forward movement is gated, backward
// movement never is and never loses data.
type Service interface {
	State(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*View, error)
	Patch(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, patch draft.Patch) (*View, error)
	Next(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) (*View, error)
	Back(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) (*View, error)
	Reset(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*View, error)
}

type service struct {
	drafts draft.Service
	now    func() time.Time
}

// NewService constructs the wizard controller service.
func NewService(drafts draft.Service) (Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft service required")
	}
	return &service{drafts: drafts, now: time.Now}, nil
}

func (s *service) State(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*View, error) {
	state, err := s.drafts.Get(ctx, userID, kind, seedCollectionID)
	if err != nil {
		return nil, err
	}
	return s.view(kind, state), nil
}

func (s *service) Patch(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, patch draft.Patch) (*View, error) {
	state, err := s.drafts.Patch(ctx, userID, kind, patch)
	if err != nil {
		return nil, err
	}
	return s.view(kind, state), nil
}

// Next validates the current step's gate and advances on success. The move
// into the terminal step is reserved for a successful submission.
func (s *service) Next(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) (*View, error) {
	state, err := s.drafts.Get(ctx, userID, kind, nil)
	if err != nil {
		return nil, err
	}

	steps := enums.StepsFor(kind)
	idx := enums.StepIndex(kind, state.Draft.Step)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "draft step is not in the wizard sequence")
	}
	if idx >= len(steps)-2 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submit the draft to finish the wizard")
	}

	gate := CheckStep(kind, state.Draft.Step, state.Payload, s.now())
	if !gate.Passed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step requirements not met").WithDetails(gate.Reasons)
	}

	state, err = s.drafts.SetStep(ctx, userID, kind, steps[idx+1])
	if err != nil {
		return nil, err
	}
	return s.view(kind, state), nil
}

// Back moves one step backward. It never validates and never touches the
// payload, so nothing entered on the abandoned step is lost.
func (s *service) Back(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) (*View, error) {
	state, err := s.drafts.Get(ctx, userID, kind, nil)
	if err != nil {
		return nil, err
	}

	idx := enums.StepIndex(kind, state.Draft.Step)
	if idx > 0 {
		state, err = s.drafts.SetStep(ctx, userID, kind, enums.StepsFor(kind)[idx-1])
		if err != nil {
			return nil, err
		}
	}
	return s.view(kind, state), nil
}

func (s *service) Reset(ctx context.Context, userID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*View, error) {
	state, err := s.drafts.Reset(ctx, userID, kind, seedCollectionID)
	if err != nil {
		return nil, err
	}
	return s.view(kind, state), nil
}

func (s *service) view(kind enums.DraftKind, state *draft.State) *View {
	return &View{
		Kind:      kind,
		Step:      state.Draft.Step,
		StepIndex: enums.StepIndex(kind, state.Draft.Step),
		Steps:     enums.StepsFor(kind),
		Payload:   state.Payload,
		Gates:     CheckAll(kind, state.Payload, s.now()),
	}
}

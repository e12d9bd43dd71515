package wizard

import (
	"strings"
	"time"

	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/pkg/enums"
)

// GateResult is the verdict for one step gate. Reasons are user-facing and
// name the fields blocking the advance.
type GateResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// CheckStep evaluates the forward gate for the given step against the draft
// payload. It is pure: the same payload always yields the same verdict and
// nothing is mutated.
func CheckStep(kind enums.DraftKind, step enums.WizardStep, payload draft.Payload, now time.Time) GateResult {
	switch kind {
	case enums.DraftKindNFT:
		return checkNFTStep(step, payload)
	default:
		return checkCollectionStep(step, payload, now)
	}
}

// CheckAll returns the gate verdicts for every non-terminal step of the
// kind's sequence, keyed by step.
func CheckAll(kind enums.DraftKind, payload draft.Payload, now time.Time) map[enums.WizardStep]GateResult {
	results := make(map[enums.WizardStep]GateResult)
	steps := enums.StepsFor(kind)
	for _, step := range steps[:len(steps)-1] {
		results[step] = CheckStep(kind, step, payload, now)
	}
	return results
}

func checkCollectionStep(step enums.WizardStep, payload draft.Payload, now time.Time) GateResult {
	var reasons []string
	switch step {
	case enums.StepBasics:
		if strings.TrimSpace(payload.Name) == "" {
			reasons = append(reasons, "name is required")
		}
	case enums.StepSettings:
		if payload.AvatarAssetID == nil {
			reasons = append(reasons, "avatar image is required")
		}
	case enums.StepReview:
		if payload.AvatarAssetID == nil {
			reasons = append(reasons, "avatar image is required")
		}
		if !payload.MintEndValid(now) {
			reasons = append(reasons, "mint end must be at least one hour from now")
		}
	}
	return GateResult{Passed: len(reasons) == 0, Reasons: reasons}
}

func checkNFTStep(step enums.WizardStep, payload draft.Payload) GateResult {
	var reasons []string
	switch step {
	case enums.StepUpload:
		if payload.PrimaryAssetID == nil {
			reasons = append(reasons, "primary media is required")
		}
		if payload.CoverAssetID == nil {
			reasons = append(reasons, "cover image is required")
		}
	case enums.StepDetails:
		if strings.TrimSpace(payload.Name) == "" && payload.CollectionID == nil {
			reasons = append(reasons, "name or parent collection is required")
		}
		if payload.ListImmediately && !payload.ListingPrice.Committed.IsPositive() {
			reasons = append(reasons, "listing price must be positive when listing immediately")
		}
	case enums.StepReview:
		// submittability: everything earlier steps demanded, re-checked
		if payload.PrimaryAssetID == nil {
			reasons = append(reasons, "primary media is required")
		}
		if payload.CoverAssetID == nil {
			reasons = append(reasons, "cover image is required")
		}
		if strings.TrimSpace(payload.Name) == "" && payload.CollectionID == nil {
			reasons = append(reasons, "name or parent collection is required")
		}
		if payload.ListImmediately && !payload.ListingPrice.Committed.IsPositive() {
			reasons = append(reasons, "listing price must be positive when listing immediately")
		}
	}
	return GateResult{Passed: len(reasons) == 0, Reasons: reasons}
}

package enums

import "fmt"

// DraftKind distinguishes the two creation wizards.
type DraftKind string

const (
	DraftKindCollection DraftKind = "collection"
	DraftKindNFT        DraftKind = "nft"
)

var validDraftKinds = []DraftKind{DraftKindCollection, DraftKindNFT}

// String implements fmt.Stringer.
func (k DraftKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known DraftKind.
func (k DraftKind) IsValid() bool {
	for _, candidate := range validDraftKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDraftKind converts raw input into a DraftKind.
func ParseDraftKind(value string) (DraftKind, error) {
	for _, candidate := range validDraftKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft kind %q", value)
}

// WizardStep is one position in a wizard's linear step sequence.
type WizardStep string

const (
	StepBasics   WizardStep = "basics"
	StepSettings WizardStep = "settings"
	StepReview   WizardStep = "review"
	StepSuccess  WizardStep = "success"

	StepUpload          WizardStep = "upload"
	StepDetails         WizardStep = "details"
	StepCongratulations WizardStep = "congratulations"
)

var collectionSteps = []WizardStep{StepBasics, StepSettings, StepReview, StepSuccess}
var nftSteps = []WizardStep{StepUpload, StepDetails, StepReview, StepCongratulations}

// String implements fmt.Stringer.
func (s WizardStep) String() string {
	return string(s)
}

// StepsFor returns the ordered step sequence for the given wizard kind.
func StepsFor(kind DraftKind) []WizardStep {
	if kind == DraftKindNFT {
		return nftSteps
	}
	return collectionSteps
}

// FirstStep returns the entry step of the given wizard kind.
func FirstStep(kind DraftKind) WizardStep {
	return StepsFor(kind)[0]
}

// TerminalStep returns the final step of the given wizard kind.
func TerminalStep(kind DraftKind) WizardStep {
	steps := StepsFor(kind)
	return steps[len(steps)-1]
}

// StepIndex returns the position of the step within its kind's sequence, or -1.
func StepIndex(kind DraftKind, step WizardStep) int {
	for i, candidate := range StepsFor(kind) {
		if candidate == step {
			return i
		}
	}
	return -1
}

// ParseWizardStep validates raw input against the kind's sequence.
func ParseWizardStep(kind DraftKind, value string) (WizardStep, error) {
	for _, candidate := range StepsFor(kind) {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid %s wizard step %q", kind, value)
}

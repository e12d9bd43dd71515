package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NumericField pairs the raw editable string of a numeric input with its
// committed value. The raw string may hold partial or invalid intermediate
// input; the committed value is always within the field's valid range.
type NumericField struct {
	Raw       string          `json:"raw"`
	Committed decimal.Decimal `json:"committed"`
}

// Commit parses raw and clamps the result into [min, max]. Unparseable input
// collapses to zero before clamping, matching blur semantics of the inputs.
func Commit(raw string, min, max decimal.Decimal) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		value = decimal.Zero
	}
	if value.LessThan(min) {
		return min
	}
	if value.GreaterThan(max) {
		return max
	}
	return value
}

// CommitBounded reconciles the pair on blur: the committed value is clamped
// and the raw string is rewritten to redisplay the committed value.
func (f NumericField) CommitBounded(min, max decimal.Decimal) NumericField {
	committed := Commit(f.Raw, min, max)
	return NumericField{
		Raw:       committed.String(),
		Committed: committed,
	}
}

// SetRaw replaces the editable string without touching the committed value.
func (f NumericField) SetRaw(raw string) NumericField {
	f.Raw = raw
	return f
}

// FromDecimal builds an already-reconciled field.
func FromDecimal(value decimal.Decimal) NumericField {
	return NumericField{Raw: value.String(), Committed: value}
}

// IsZero reports whether the committed value is zero.
func (f NumericField) IsZero() bool {
	return f.Committed.IsZero()
}

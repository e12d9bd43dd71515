package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCommitClampsBelowMin(t *testing.T) {
	got := Commit("-5", decimal.Zero, decimal.NewFromInt(50))
	if !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestCommitClampsAboveMax(t *testing.T) {
	got := Commit("999", decimal.Zero, decimal.NewFromInt(50))
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50, got %s", got)
	}
}

func TestCommitNonNumericCollapsesToRange(t *testing.T) {
	got := Commit("abc", decimal.NewFromInt(1), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected min for unparseable input, got %s", got)
	}
}

func TestCommitKeepsInRangeValue(t *testing.T) {
	got := Commit(" 12.5 ", decimal.Zero, decimal.NewFromInt(50))
	if !got.Equal(decimal.NewFromFloat(12.5)) {
		t.Fatalf("expected 12.5, got %s", got)
	}
}

func TestCommitBoundedRedisplaysCommitted(t *testing.T) {
	field := NumericField{Raw: "75"}
	reconciled := field.CommitBounded(decimal.Zero, decimal.NewFromInt(50))
	if reconciled.Raw != "50" {
		t.Fatalf("expected raw redisplay \"50\", got %q", reconciled.Raw)
	}
	if !reconciled.Committed.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected committed 50, got %s", reconciled.Committed)
	}
}

func TestSetRawLeavesCommitted(t *testing.T) {
	field := FromDecimal(decimal.NewFromInt(10))
	edited := field.SetRaw("10.")
	if edited.Raw != "10." {
		t.Fatalf("raw should hold intermediate input, got %q", edited.Raw)
	}
	if !edited.Committed.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("committed should be untouched, got %s", edited.Committed)
	}
}

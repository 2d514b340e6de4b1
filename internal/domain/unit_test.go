package domain

import (
	"errors"
	"testing"
)

func TestUnitNodeValidate(t *testing.T) {
	t.Parallel()

	validNode := UnitNode{
		ID:            "unit-1",
		KnownText:     "water",
		TargetText:    "agua",
		BirthBeltTier: BeltWhite,
	}

	if err := validNode.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := validNode
	invalid.ID = ""
	if err := invalid.Validate(); !errors.Is(err, ErrEmptyUnitID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyUnitID, err)
	}

	invalid = validNode
	invalid.TargetText = ""
	if err := invalid.Validate(); !errors.Is(err, ErrEmptyUnitTarget) {
		t.Errorf("Expected error %v, got %v", ErrEmptyUnitTarget, err)
	}

	invalid = validNode
	invalid.BirthBeltTier = "plaid"
	if err := invalid.Validate(); !errors.Is(err, ErrInvalidBeltTier) {
		t.Errorf("Expected error %v, got %v", ErrInvalidBeltTier, err)
	}
}

func TestIsValidBeltTier(t *testing.T) {
	t.Parallel()

	for _, tier := range BeltTiers {
		if !IsValidBeltTier(tier) {
			t.Errorf("Expected %q to be a valid tier", tier)
		}
	}

	if IsValidBeltTier("") {
		t.Error("Expected empty tier to be invalid")
	}
	if IsValidBeltTier("gold") {
		t.Error("Expected unknown tier to be invalid")
	}
}

func TestCanonicalEdgeIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		a, b       string
		wantSource string
		wantTarget string
	}{
		{name: "already ordered", a: "alpha", b: "beta", wantSource: "alpha", wantTarget: "beta"},
		{name: "reversed input", a: "beta", b: "alpha", wantSource: "alpha", wantTarget: "beta"},
		{name: "equal ids", a: "same", b: "same", wantSource: "same", wantTarget: "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			source, target := CanonicalEdgeIDs(tt.a, tt.b)
			if source != tt.wantSource || target != tt.wantTarget {
				t.Errorf("CanonicalEdgeIDs(%q, %q) = (%q, %q), want (%q, %q)",
					tt.a, tt.b, source, target, tt.wantSource, tt.wantTarget)
			}
		})
	}
}

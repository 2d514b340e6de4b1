package domain

import (
	"errors"
	"testing"
)

func validItem() LearningItem {
	return LearningItem{
		ID:          "item-1",
		Type:        ItemTypeDebut,
		UnitID:      "unit-1",
		KnownText:   "water",
		TargetText:  "agua",
		RoundNumber: 1,
	}
}

func TestLearningItemValidate(t *testing.T) {
	t.Parallel()

	// Test valid item
	item := validItem()
	if err := item.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Intro items without a unit text requirement still need target text
	item = validItem()
	item.Type = ItemTypeIntro
	if err := item.Validate(); err != nil {
		t.Errorf("Expected no error for intro item, got %v", err)
	}

	// Test empty ID
	item = validItem()
	item.ID = ""
	if err := item.Validate(); !errors.Is(err, ErrEmptyItemID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyItemID, err)
	}

	// Test unknown type
	item = validItem()
	item.Type = "karaoke"
	if err := item.Validate(); !errors.Is(err, ErrInvalidItemType) {
		t.Errorf("Expected error %v, got %v", ErrInvalidItemType, err)
	}

	// Test empty target text
	item = validItem()
	item.TargetText = ""
	if err := item.Validate(); !errors.Is(err, ErrEmptyTargetText) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTargetText, err)
	}

	// Test non-positive round number
	item = validItem()
	item.RoundNumber = 0
	if err := item.Validate(); !errors.Is(err, ErrInvalidRoundNumber) {
		t.Errorf("Expected error %v, got %v", ErrInvalidRoundNumber, err)
	}
}

func TestRoundValidate(t *testing.T) {
	t.Parallel()

	round := Round{
		RoundNumber: 1,
		UnitID:      "unit-1",
		Items:       []LearningItem{validItem()},
	}
	if err := round.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := round
	invalid.RoundNumber = 0
	if err := invalid.Validate(); !errors.Is(err, ErrInvalidRoundNumber) {
		t.Errorf("Expected error %v, got %v", ErrInvalidRoundNumber, err)
	}

	invalid = round
	invalid.UnitID = ""
	if err := invalid.Validate(); !errors.Is(err, ErrEmptyRoundUnitID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyRoundUnitID, err)
	}

	// An invalid item surfaces through the round with context
	badItem := validItem()
	badItem.TargetText = ""
	invalid = round
	invalid.Items = []LearningItem{badItem}
	if err := invalid.Validate(); !errors.Is(err, ErrEmptyTargetText) {
		t.Errorf("Expected error wrapping %v, got %v", ErrEmptyTargetText, err)
	}
}

func TestScriptValidate(t *testing.T) {
	t.Parallel()

	makeRound := func(number int, unitID string) Round {
		item := validItem()
		item.ID = unitID + "-item"
		item.UnitID = unitID
		item.RoundNumber = number
		return Round{RoundNumber: number, UnitID: unitID, Items: []LearningItem{item}}
	}

	tests := []struct {
		name        string
		script      Script
		expectedErr error
	}{
		{
			name:   "empty script is valid",
			script: Script{},
		},
		{
			name: "ascending rounds with distinct units",
			script: Script{Rounds: []Round{
				makeRound(1, "u1"),
				makeRound(2, "u2"),
				makeRound(3, "u3"),
			}},
		},
		{
			name: "gaps in round numbers are allowed",
			script: Script{Rounds: []Round{
				makeRound(1, "u1"),
				makeRound(5, "u2"),
			}},
		},
		{
			name: "duplicate round number",
			script: Script{Rounds: []Round{
				makeRound(1, "u1"),
				makeRound(1, "u2"),
			}},
			expectedErr: ErrRoundOrder,
		},
		{
			name: "decreasing round number",
			script: Script{Rounds: []Round{
				makeRound(2, "u1"),
				makeRound(1, "u2"),
			}},
			expectedErr: ErrRoundOrder,
		},
		{
			name: "unit introduced twice",
			script: Script{Rounds: []Round{
				makeRound(1, "u1"),
				makeRound(2, "u1"),
			}},
			expectedErr: ErrDuplicateRoundUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.script.Validate()
			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

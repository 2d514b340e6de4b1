package domain

import (
	"errors"
	"fmt"
)

// ItemType classifies a learning item within a round.
type ItemType string

// Possible learning item types
const (
	// ItemTypeIntro presents a brand new unit without drilling it.
	ItemTypeIntro ItemType = "intro"

	// ItemTypeDebut is the first drilled practice of a new unit.
	ItemTypeDebut ItemType = "debut"

	// ItemTypeDebutPhrase drills a phrase that combines the new unit
	// with previously introduced units.
	ItemTypeDebutPhrase ItemType = "debut_phrase"

	// ItemTypeSpacedRep revisits a unit introduced in an earlier round.
	ItemTypeSpacedRep ItemType = "spaced_rep"

	// ItemTypeConsolidation mixes several earlier units in one phrase.
	ItemTypeConsolidation ItemType = "consolidation"
)

// Common validation errors for learning items and rounds
var (
	ErrEmptyItemID        = errors.New("learning item ID cannot be empty")
	ErrInvalidItemType    = errors.New("invalid learning item type")
	ErrEmptyTargetText    = errors.New("learning item target text cannot be empty")
	ErrInvalidRoundNumber = errors.New("round number must be positive")
	ErrEmptyRoundUnitID   = errors.New("round unit ID cannot be empty")
	ErrRoundOrder         = errors.New("round numbers must be strictly increasing")
	ErrDuplicateRoundUnit = errors.New("round introduces a unit that an earlier round already introduced")
)

// LearningItem is a single practice prompt inside a round. Items are
// produced by the content provider and are immutable once created.
type LearningItem struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	UnitID      string   `json:"unit_id,omitempty"`
	KnownText   string   `json:"known_text"`
	TargetText  string   `json:"target_text"`
	RoundNumber int      `json:"round_number"`
	// ReviewOf is the round whose unit this item revisits. Zero for
	// items that are not spaced-repetition reviews.
	ReviewOf int `json:"review_of,omitempty"`
}

// Validate checks if the LearningItem has valid data.
func (i *LearningItem) Validate() error {
	if i.ID == "" {
		return ErrEmptyItemID
	}

	if !isValidItemType(i.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidItemType, i.Type)
	}

	if i.TargetText == "" {
		return ErrEmptyTargetText
	}

	if i.RoundNumber < 1 {
		return ErrInvalidRoundNumber
	}

	return nil
}

// isValidItemType checks if the given type is a known ItemType.
func isValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeIntro, ItemTypeDebut, ItemTypeDebutPhrase,
		ItemTypeSpacedRep, ItemTypeConsolidation:
		return true
	default:
		return false
	}
}

// Round is one curriculum pass. Each round introduces exactly one new
// unit and may schedule spaced-repetition reviews of earlier rounds.
type Round struct {
	RoundNumber      int            `json:"round_number"`
	UnitID           string         `json:"unit_id"`
	SeedID           string         `json:"seed_id"`
	Items            []LearningItem `json:"items"`
	SpacedRepReviews []int          `json:"spaced_rep_reviews"`
}

// Validate checks if the Round has valid data, including all its items.
func (r *Round) Validate() error {
	if r.RoundNumber < 1 {
		return ErrInvalidRoundNumber
	}

	if r.UnitID == "" {
		return ErrEmptyRoundUnitID
	}

	for idx := range r.Items {
		if err := r.Items[idx].Validate(); err != nil {
			return fmt.Errorf("round %d item %d: %w", r.RoundNumber, idx, err)
		}
	}

	return nil
}

// Script is a full generated curriculum: the ordered rounds a practice
// session walks through.
type Script struct {
	Rounds []Round `json:"rounds"`
}

// Validate checks the Script's session-wide invariants: round numbers
// strictly increase and no unit is introduced twice.
func (s *Script) Validate() error {
	lastRound := 0
	introduced := make(map[string]struct{}, len(s.Rounds))

	for idx := range s.Rounds {
		round := &s.Rounds[idx]
		if err := round.Validate(); err != nil {
			return err
		}

		if round.RoundNumber <= lastRound {
			return fmt.Errorf("%w: round %d follows round %d",
				ErrRoundOrder, round.RoundNumber, lastRound)
		}
		lastRound = round.RoundNumber

		if _, ok := introduced[round.UnitID]; ok {
			return fmt.Errorf("%w: unit %q", ErrDuplicateRoundUnit, round.UnitID)
		}
		introduced[round.UnitID] = struct{}{}
	}

	return nil
}

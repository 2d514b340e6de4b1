package domain

import (
	"errors"
)

// BeltTier is a coarse progress classification derived from how many
// units the learner had acquired when a unit was first encountered.
type BeltTier string

// Belt tiers in ascending order.
const (
	BeltWhite  BeltTier = "white"
	BeltYellow BeltTier = "yellow"
	BeltOrange BeltTier = "orange"
	BeltGreen  BeltTier = "green"
	BeltBlue   BeltTier = "blue"
	BeltPurple BeltTier = "purple"
	BeltBrown  BeltTier = "brown"
	BeltBlack  BeltTier = "black"
)

// BeltTiers lists all tiers in ascending order.
var BeltTiers = []BeltTier{
	BeltWhite, BeltYellow, BeltOrange, BeltGreen,
	BeltBlue, BeltPurple, BeltBrown, BeltBlack,
}

// Common validation errors for units
var (
	ErrEmptyUnitID     = errors.New("unit ID cannot be empty")
	ErrEmptyUnitTarget = errors.New("unit target text cannot be empty")
	ErrInvalidBeltTier = errors.New("invalid belt tier")
)

// UnitNode is one vocabulary unit in the learner's network. Stats only
// ever grow within a session: TotalPractices and MasteryScore are
// monotonically non-decreasing, and IsEternal transitions false to true
// exactly once.
type UnitNode struct {
	ID             string   `json:"id"`
	KnownText      string   `json:"known_text"`
	TargetText     string   `json:"target_text"`
	SeedID         string   `json:"seed_id"`
	TotalPractices int      `json:"total_practices"`
	MasteryScore   float64  `json:"mastery_score"`
	IsEternal      bool     `json:"is_eternal"`
	BirthBeltTier  BeltTier `json:"birth_belt_tier"`
}

// Validate checks if the UnitNode has valid data.
func (n *UnitNode) Validate() error {
	if n.ID == "" {
		return ErrEmptyUnitID
	}

	if n.TargetText == "" {
		return ErrEmptyUnitTarget
	}

	if !IsValidBeltTier(n.BirthBeltTier) {
		return ErrInvalidBeltTier
	}

	return nil
}

// IsValidBeltTier reports whether tier is one of the eight known tiers.
func IsValidBeltTier(tier BeltTier) bool {
	for _, t := range BeltTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// UnitEdge records how often two units co-occurred in practiced
// phrases. Edges are undirected: SourceID and TargetID are stored in
// canonical (lexicographic) order.
type UnitEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Count    int    `json:"count"`
}

// CanonicalEdgeIDs returns the pair (a, b) in canonical storage order.
func CanonicalEdgeIDs(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

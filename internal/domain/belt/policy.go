package belt

import (
	"github.com/phrazzld/lingo-api/internal/domain"
)

// TierFor maps the current total node count to a belt tier: the
// highest tier whose threshold the count has reached. A node's birth
// tier is captured with this function at creation time and never
// recomputed, which is what keeps historical layer coloring stable.
func TierFor(nodeCount int, params *Params) domain.BeltTier {
	tier := domain.BeltWhite
	for _, candidate := range domain.BeltTiers {
		threshold, ok := params.TierThresholds[candidate]
		if !ok {
			continue
		}
		if nodeCount >= threshold {
			tier = candidate
		}
	}
	return tier
}

// HeroScale returns the visual-weight multiplier for a network of the
// given size. Small networks render oversized; past the last
// configured step the multiplier is exactly 1.0.
func HeroScale(nodeCount int, params *Params) float64 {
	for _, step := range params.HeroScaleSteps {
		if nodeCount <= step.MaxNodes {
			return step.Scale
		}
	}
	return 1.0
}

// NextMastery applies one practice's worth of mastery gain, clamped
// to 1.0. The result never decreases.
func NextMastery(current float64, params *Params) float64 {
	next := current + params.MasteryStep
	if next > 1.0 {
		next = 1.0
	}
	if next < current {
		return current
	}
	return next
}

// QualifiesForEternal reports whether a unit with the given stats has
// earned permanent mastery. Promotion itself is one-way; callers must
// never clear IsEternal once set.
func QualifiesForEternal(totalPractices int, masteryScore float64, params *Params) bool {
	return totalPractices > params.EternalMinPractices &&
		masteryScore > params.EternalMinMastery
}

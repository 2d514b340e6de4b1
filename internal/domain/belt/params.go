// Package belt implements the progress-classification policy for the
// unit network: belt tiers from cumulative network size, the hero-scale
// visual weight curve, and the eternal-promotion rule.
package belt

import (
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Params defines all configurable parameters for the belt policy.
type Params struct {
	// TierThresholds maps each tier to the minimum node count at which
	// it applies. Thresholds must cover all eight tiers and ascend in
	// tier order; BeltWhite is expected at 0.
	TierThresholds map[domain.BeltTier]int

	// MasteryStep is how much one practice raises a unit's mastery
	// score, clamped to 1.0.
	MasteryStep float64

	// EternalMinPractices and EternalMinMastery gate the one-way
	// eternal promotion: a unit becomes eternal once its practice
	// count exceeds EternalMinPractices AND its mastery score exceeds
	// EternalMinMastery.
	EternalMinPractices int
	EternalMinMastery   float64

	// HeroScaleSteps maps small network sizes to visual-weight
	// multipliers; the step whose MaxNodes is the first to cover the
	// current count wins. Counts past every step scale at 1.0.
	HeroScaleSteps []HeroScaleStep
}

// HeroScaleStep is one plateau of the decreasing hero-scale curve.
type HeroScaleStep struct {
	MaxNodes int
	Scale    float64
}

// ParamsConfig allows overriding the default parameters when creating
// a new Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	// Tier thresholds, in ascending tier order after white (which is
	// always 0).
	YellowThreshold int
	OrangeThreshold int
	GreenThreshold  int
	BlueThreshold   int
	PurpleThreshold int
	BrownThreshold  int
	BlackThreshold  int

	MasteryStep         float64
	EternalMinPractices int
	EternalMinMastery   float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		TierThresholds: map[domain.BeltTier]int{
			domain.BeltWhite:  0,
			domain.BeltYellow: 5,
			domain.BeltOrange: 12,
			domain.BeltGreen:  20,
			domain.BeltBlue:   30,
			domain.BeltPurple: 45,
			domain.BeltBrown:  65,
			domain.BeltBlack:  90,
		},

		MasteryStep: 0.05,

		EternalMinPractices: 30,
		EternalMinMastery:   0.8,

		// Small networks get oversized nodes so the first few units
		// fill the canvas; the multiplier converges to 1.0.
		HeroScaleSteps: []HeroScaleStep{
			{MaxNodes: 3, Scale: 2.0},
			{MaxNodes: 6, Scale: 1.6},
			{MaxNodes: 10, Scale: 1.3},
			{MaxNodes: 15, Scale: 1.15},
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.YellowThreshold > 0 {
		params.TierThresholds[domain.BeltYellow] = config.YellowThreshold
	}
	if config.OrangeThreshold > 0 {
		params.TierThresholds[domain.BeltOrange] = config.OrangeThreshold
	}
	if config.GreenThreshold > 0 {
		params.TierThresholds[domain.BeltGreen] = config.GreenThreshold
	}
	if config.BlueThreshold > 0 {
		params.TierThresholds[domain.BeltBlue] = config.BlueThreshold
	}
	if config.PurpleThreshold > 0 {
		params.TierThresholds[domain.BeltPurple] = config.PurpleThreshold
	}
	if config.BrownThreshold > 0 {
		params.TierThresholds[domain.BeltBrown] = config.BrownThreshold
	}
	if config.BlackThreshold > 0 {
		params.TierThresholds[domain.BeltBlack] = config.BlackThreshold
	}

	if config.MasteryStep > 0 {
		params.MasteryStep = config.MasteryStep
	}
	if config.EternalMinPractices > 0 {
		params.EternalMinPractices = config.EternalMinPractices
	}
	if config.EternalMinMastery > 0 {
		params.EternalMinMastery = config.EternalMinMastery
	}

	return params
}

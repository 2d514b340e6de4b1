package gemini

// responseSchema mirrors the JSON document the model is instructed to
// return: an ordered list of rounds, each introducing one new unit and
// carrying its learning items.
type responseSchema struct {
	Rounds []roundSchema `json:"rounds"`
}

type roundSchema struct {
	RoundNumber      int          `json:"round_number"`
	UnitID           string       `json:"unit_id"`
	SeedID           string       `json:"seed_id,omitempty"`
	Items            []itemSchema `json:"items"`
	SpacedRepReviews []int        `json:"spaced_rep_reviews,omitempty"`
}

type itemSchema struct {
	Type       string `json:"type"`
	UnitID     string `json:"unit_id,omitempty"`
	KnownText  string `json:"known_text"`
	TargetText string `json:"target_text"`
	ReviewOf   int    `json:"review_of,omitempty"`
}

// promptData carries the values substituted into the prompt template.
type promptData struct {
	Config   string
	MaxUnits int
}

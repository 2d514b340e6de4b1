package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/lingo-api/internal/domain"
)

func phraseItem(id, target string) domain.LearningItem {
	return domain.LearningItem{
		ID:          id,
		Type:        domain.ItemTypeConsolidation,
		KnownText:   "known",
		TargetText:  target,
		RoundNumber: 1,
	}
}

func TestCooccurrenceEdges(t *testing.T) {
	t.Parallel()

	vocab := map[string]string{
		"agua":      "u-water",
		"por favor": "u-please",
		"gracias":   "u-thanks",
	}

	queue := []domain.LearningItem{
		phraseItem("i1", "agua por favor"),
		phraseItem("i2", "gracias"),
		phraseItem("i3", "agua por favor gracias"),
	}

	set := CooccurrenceEdges(queue, vocab)

	assert.ElementsMatch(t, []string{"u-water", "u-thanks"}, set.Neighbors("u-please"))
	assert.ElementsMatch(t, []string{"u-please", "u-thanks"}, set.Neighbors("u-water"))
	assert.ElementsMatch(t, []string{"u-water", "u-please"}, set.Neighbors("u-thanks"))
}

func TestCooccurrenceEdgesDeduplicates(t *testing.T) {
	t.Parallel()

	vocab := map[string]string{
		"agua":    "u-water",
		"gracias": "u-thanks",
	}

	// The same pair across many phrases yields one neighbor entry.
	queue := []domain.LearningItem{
		phraseItem("i1", "agua gracias"),
		phraseItem("i2", "gracias agua"),
		phraseItem("i3", "agua gracias agua"),
	}

	set := CooccurrenceEdges(queue, vocab)

	assert.Equal(t, []string{"u-thanks"}, set.Neighbors("u-water"))
	assert.Equal(t, []string{"u-water"}, set.Neighbors("u-thanks"))
}

func TestCooccurrenceEdgesSingleUnitPhrases(t *testing.T) {
	t.Parallel()

	vocab := map[string]string{
		"agua":    "u-water",
		"gracias": "u-thanks",
	}

	queue := []domain.LearningItem{
		phraseItem("i1", "agua"),
		phraseItem("i2", "gracias"),
		phraseItem("i3", "nothing known here"),
	}

	set := CooccurrenceEdges(queue, vocab)
	assert.Empty(t, set)
	assert.Nil(t, set.Neighbors("u-water"))
}

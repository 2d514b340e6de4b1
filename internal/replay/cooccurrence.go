package replay

import (
	"github.com/phrazzld/lingo-api/internal/decompose"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// EdgeSet is the precomputed co-occurrence relation: for each unit ID,
// the set of unit IDs it ever shares a phrase with across the queue.
type EdgeSet map[string][]string

// Neighbors returns the units co-occurring with id, or nil.
func (s EdgeSet) Neighbors(id string) []string {
	return s[id]
}

// CooccurrenceEdges decomposes every item's target phrase against the
// vocabulary and records an undirected co-occurrence pair for each
// distinct unit couple appearing in the same phrase. The result feeds
// the simulator's edge registration; items whose phrases decompose to
// fewer than two units simply contribute nothing.
func CooccurrenceEdges(queue []domain.LearningItem, vocab map[string]string) EdgeSet {
	seen := make(map[[2]string]struct{})
	set := make(EdgeSet)

	for i := range queue {
		units := decompose.Decompose(queue[i].TargetText, vocab)
		if len(units) < 2 {
			continue
		}

		for a := 0; a < len(units); a++ {
			for b := a + 1; b < len(units); b++ {
				if units[a] == units[b] {
					continue
				}
				source, target := domain.CanonicalEdgeIDs(units[a], units[b])
				key := [2]string{source, target}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				set[source] = append(set[source], target)
				set[target] = append(set[target], source)
			}
		}
	}

	return set
}

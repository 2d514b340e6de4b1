package network

import (
	"context"
	"sort"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Snapshot is a plain-data view of the graph, suitable for
// serialization or for seeding a fresh Model. Nodes and edges are
// sorted by ID so snapshots are deterministic.
type Snapshot struct {
	Nodes []domain.UnitNode `json:"nodes"`
	Edges []domain.UnitEdge `json:"edges"`
}

// Snapshot exports the current graph state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Nodes: make([]domain.UnitNode, 0, len(m.nodes)),
		Edges: make([]domain.UnitEdge, 0, len(m.edges)),
	}

	for _, node := range m.nodes {
		snap.Nodes = append(snap.Nodes, *node)
	}
	for _, edge := range m.edges {
		snap.Edges = append(snap.Edges, *edge)
	}

	sort.Slice(snap.Nodes, func(i, j int) bool {
		return snap.Nodes[i].ID < snap.Nodes[j].ID
	})
	sort.Slice(snap.Edges, func(i, j int) bool {
		if snap.Edges[i].SourceID != snap.Edges[j].SourceID {
			return snap.Edges[i].SourceID < snap.Edges[j].SourceID
		}
		return snap.Edges[i].TargetID < snap.Edges[j].TargetID
	})

	return snap
}

// Restore loads a persisted snapshot into the model. Node stats and
// edge counts are taken verbatim; already-present entries are left
// untouched (registration is idempotent). No events are emitted for
// restored entries since they represent past mutations.
func (m *Model) Restore(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range snap.Nodes {
		node := snap.Nodes[i]
		if err := node.Validate(); err != nil {
			return err
		}
		if _, ok := m.nodes[node.ID]; ok {
			continue
		}
		restored := node
		m.nodes[node.ID] = &restored
	}

	for i := range snap.Edges {
		edge := snap.Edges[i]
		source, target := domain.CanonicalEdgeIDs(edge.SourceID, edge.TargetID)
		key := edgeKey{source: source, target: target}
		if _, ok := m.edges[key]; ok {
			continue
		}
		count := edge.Count
		if count < 1 {
			count = 1
		}
		m.edges[key] = &domain.UnitEdge{SourceID: source, TargetID: target, Count: count}
	}

	return nil
}

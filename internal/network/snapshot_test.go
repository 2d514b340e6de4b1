package network

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/belt"
)

func TestSnapshotDeterministicOrder(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()

	// Insert in non-lexicographic order.
	registerUnits(t, model, "zeta", "alpha", "mike")
	require.NoError(t, model.RegisterEdge(ctx, "zeta", "alpha"))
	require.NoError(t, model.RegisterEdge(ctx, "mike", "alpha"))

	snap := model.Snapshot()

	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, "alpha", snap.Nodes[0].ID)
	assert.Equal(t, "mike", snap.Nodes[1].ID)
	assert.Equal(t, "zeta", snap.Nodes[2].ID)

	require.Len(t, snap.Edges, 2)
	assert.Equal(t, "alpha", snap.Edges[0].SourceID)
	assert.Equal(t, "mike", snap.Edges[0].TargetID)
	assert.Equal(t, "alpha", snap.Edges[1].SourceID)
	assert.Equal(t, "zeta", snap.Edges[1].TargetID)

	// Snapshots marshal identically across calls.
	first, err := json.Marshal(model.Snapshot())
	require.NoError(t, err)
	second, err := json.Marshal(model.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	source, _ := newTestModel(t)
	ctx := context.Background()
	registerUnits(t, source, "u1", "u2", "u3")
	require.NoError(t, source.RegisterEdge(ctx, "u1", "u2"))
	require.NoError(t, source.RegisterEdge(ctx, "u1", "u2"))
	require.NoError(t, source.RegisterPractice(ctx, "u3", 4))

	restored := NewModel(belt.NewDefaultParams(), nil, nil)
	require.NoError(t, restored.Restore(ctx, source.Snapshot()))

	assert.Equal(t, source.Snapshot(), restored.Snapshot())
	assert.Equal(t, 2, restored.EdgeCount("u1", "u2"))

	node, ok := restored.Node("u3")
	require.True(t, ok)
	assert.Equal(t, 4, node.TotalPractices)
}

func TestRestoreKeepsExistingEntries(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()
	registerUnits(t, model, "u1")
	require.NoError(t, model.RegisterPractice(ctx, "u1", 5))

	snap := Snapshot{
		Nodes: []domain.UnitNode{{
			ID:            "u1",
			TargetText:    "stale",
			BirthBeltTier: domain.BeltBlack,
		}},
	}
	require.NoError(t, model.Restore(ctx, snap))

	node, ok := model.Node("u1")
	require.True(t, ok)
	assert.Equal(t, 5, node.TotalPractices, "live stats win over the restored copy")
	assert.Equal(t, "target u1", node.TargetText)
}

func TestRestoreValidatesAndCanonicalizes(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()

	err := model.Restore(ctx, Snapshot{
		Nodes: []domain.UnitNode{{ID: "", TargetText: "agua", BirthBeltTier: domain.BeltWhite}},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyUnitID)

	snap := Snapshot{
		Nodes: []domain.UnitNode{
			{ID: "a", TargetText: "ta", BirthBeltTier: domain.BeltWhite},
			{ID: "b", TargetText: "tb", BirthBeltTier: domain.BeltWhite},
		},
		Edges: []domain.UnitEdge{
			// Reversed pair and a non-positive count.
			{SourceID: "b", TargetID: "a", Count: 0},
		},
	}
	require.NoError(t, model.Restore(ctx, snap))
	assert.Equal(t, 1, model.EdgeCount("a", "b"))
}

package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/belt"
	"github.com/phrazzld/lingo-api/internal/events"
)

// recordingEmitter captures emitted events for inspection.
type recordingEmitter struct {
	events []*events.Event
}

func (e *recordingEmitter) Emit(ctx context.Context, event *events.Event) error {
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) byType(eventType string) []*events.Event {
	var matched []*events.Event
	for _, event := range e.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func newTestModel(t *testing.T) (*Model, *recordingEmitter) {
	t.Helper()
	emitter := &recordingEmitter{}
	return NewModel(belt.NewDefaultParams(), emitter, nil), emitter
}

func registerUnits(t *testing.T, model *Model, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := model.RegisterNode(context.Background(), id, "known "+id, "target "+id, "", model.CurrentTier())
		require.NoError(t, err)
	}
}

func TestNewModelRequiresParams(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		NewModel(nil, nil, nil)
	})
}

func TestRegisterNode(t *testing.T) {
	t.Parallel()

	model, emitter := newTestModel(t)
	ctx := context.Background()

	err := model.RegisterNode(ctx, "u1", "water", "agua", "seed-1", domain.BeltWhite)
	require.NoError(t, err)

	assert.True(t, model.Has("u1"))
	assert.Equal(t, 1, model.NodeCount())

	node, ok := model.Node("u1")
	require.True(t, ok)
	assert.Equal(t, "agua", node.TargetText)
	assert.Equal(t, "seed-1", node.SeedID)
	assert.Equal(t, domain.BeltWhite, node.BirthBeltTier)
	assert.Zero(t, node.TotalPractices)
	assert.Zero(t, node.MasteryScore)
	assert.False(t, node.IsEternal)

	require.Len(t, emitter.byType(EventNodeAdded), 1)
}

func TestRegisterNodeIdempotent(t *testing.T) {
	t.Parallel()

	model, emitter := newTestModel(t)
	ctx := context.Background()

	require.NoError(t, model.RegisterNode(ctx, "u1", "water", "agua", "", domain.BeltWhite))
	require.NoError(t, model.RegisterPractice(ctx, "u1", 3))

	// Re-registration must not reset accumulated stats.
	require.NoError(t, model.RegisterNode(ctx, "u1", "water", "agua", "", domain.BeltYellow))

	assert.Equal(t, 1, model.NodeCount())
	node, ok := model.Node("u1")
	require.True(t, ok)
	assert.Equal(t, 3, node.TotalPractices)
	assert.Equal(t, domain.BeltWhite, node.BirthBeltTier, "birth tier is never recomputed")

	assert.Len(t, emitter.byType(EventNodeAdded), 1, "duplicate registration emits nothing")
}

func TestRegisterNodeValidation(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()

	err := model.RegisterNode(ctx, "", "water", "agua", "", domain.BeltWhite)
	assert.ErrorIs(t, err, domain.ErrEmptyUnitID)

	err = model.RegisterNode(ctx, "u1", "water", "", "", domain.BeltWhite)
	assert.ErrorIs(t, err, domain.ErrEmptyUnitTarget)

	err = model.RegisterNode(ctx, "u1", "water", "agua", "", "plaid")
	assert.ErrorIs(t, err, domain.ErrInvalidBeltTier)
}

func TestRegisterEdge(t *testing.T) {
	t.Parallel()

	model, emitter := newTestModel(t)
	ctx := context.Background()
	registerUnits(t, model, "alpha", "beta")

	require.NoError(t, model.RegisterEdge(ctx, "alpha", "beta"))
	assert.Equal(t, 1, model.EdgeCount("alpha", "beta"))

	// Argument order never matters: the same canonical edge increments.
	require.NoError(t, model.RegisterEdge(ctx, "beta", "alpha"))
	assert.Equal(t, 2, model.EdgeCount("alpha", "beta"))
	assert.Equal(t, 2, model.EdgeCount("beta", "alpha"))

	// The added event fires only on creation, not on increments.
	added := emitter.byType(EventEdgeAdded)
	require.Len(t, added, 1)
	payload, ok := added[0].Payload.(EdgeAdded)
	require.True(t, ok)
	assert.Equal(t, "alpha", payload.Edge.SourceID)
	assert.Equal(t, "beta", payload.Edge.TargetID)
}

func TestRegisterEdgeUnknownUnit(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()
	registerUnits(t, model, "alpha")

	assert.ErrorIs(t, model.RegisterEdge(ctx, "alpha", "ghost"), ErrUnitNotFound)
	assert.ErrorIs(t, model.RegisterEdge(ctx, "ghost", "alpha"), ErrUnitNotFound)
	assert.Equal(t, 0, model.EdgeCount("alpha", "ghost"))
}

func TestRegisterPractice(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)
	ctx := context.Background()
	registerUnits(t, model, "u1")

	require.NoError(t, model.RegisterPractice(ctx, "u1", 2))

	node, ok := model.Node("u1")
	require.True(t, ok)
	assert.Equal(t, 2, node.TotalPractices)
	assert.InDelta(t, 0.10, node.MasteryScore, 1e-9)

	// A delta below one still counts as a single practice.
	require.NoError(t, model.RegisterPractice(ctx, "u1", 0))
	node, _ = model.Node("u1")
	assert.Equal(t, 3, node.TotalPractices)

	assert.ErrorIs(t, model.RegisterPractice(ctx, "ghost", 1), ErrUnitNotFound)
}

func TestEternalPromotionIsOneWay(t *testing.T) {
	t.Parallel()

	// Tight thresholds so promotion happens quickly.
	params := belt.NewParams(belt.ParamsConfig{
		MasteryStep:         0.5,
		EternalMinPractices: 2,
		EternalMinMastery:   0.9,
	})
	model := NewModel(params, nil, nil)
	ctx := context.Background()

	require.NoError(t, model.RegisterNode(ctx, "u1", "water", "agua", "", domain.BeltWhite))

	require.NoError(t, model.RegisterPractice(ctx, "u1", 2))
	node, _ := model.Node("u1")
	assert.False(t, node.IsEternal, "practices not yet above threshold")

	require.NoError(t, model.RegisterPractice(ctx, "u1", 1))
	node, _ = model.Node("u1")
	assert.True(t, node.IsEternal)

	// Further practice never clears the flag.
	require.NoError(t, model.RegisterPractice(ctx, "u1", 10))
	node, _ = model.Node("u1")
	assert.True(t, node.IsEternal)
}

func TestCurrentTierTracksGrowth(t *testing.T) {
	t.Parallel()

	model, _ := newTestModel(t)

	assert.Equal(t, domain.BeltWhite, model.CurrentTier())
	assert.Equal(t, 2.0, model.HeroScale())

	for i := 0; i < 5; i++ {
		registerUnits(t, model, string(rune('a'+i)))
	}

	assert.Equal(t, domain.BeltYellow, model.CurrentTier())
	assert.Equal(t, 1.6, model.HeroScale())
}

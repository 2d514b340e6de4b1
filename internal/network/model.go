// Package network maintains the learner's vocabulary graph: one node
// per acquired unit, one undirected edge per co-occurring unit pair.
// The model exposes plain data only; rendering concerns stay with the
// presentation layer.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/belt"
	"github.com/phrazzld/lingo-api/internal/events"
)

// Event types emitted by the model, sufficient for incremental
// re-rendering by a visualization layer.
const (
	EventNodeAdded = "network.node_added"
	EventEdgeAdded = "network.edge_added"
)

// NodeAdded is the payload of an EventNodeAdded event.
type NodeAdded struct {
	Node domain.UnitNode
}

// EdgeAdded is the payload of an EventEdgeAdded event. It fires only
// when an edge is first created, not on count increments.
type EdgeAdded struct {
	Edge domain.UnitEdge
}

// ErrUnitNotFound is returned when an edge or practice operation
// references a unit that was never registered. This signals a desync
// between the content provider and the model and is deliberately loud.
var ErrUnitNotFound = errors.New("unit not registered in network")

type edgeKey struct {
	source string
	target string
}

// Model is the mutable unit graph. All operations are safe for
// concurrent use; mutation is strictly serialized by an internal lock.
type Model struct {
	mu     sync.RWMutex
	nodes  map[string]*domain.UnitNode
	edges  map[edgeKey]*domain.UnitEdge
	params *belt.Params

	emitter events.Emitter
	logger  *slog.Logger
}

// NewModel creates an empty Model governed by the given belt params.
// The emitter may be nil when no consumer cares about mutations.
func NewModel(params *belt.Params, emitter events.Emitter, logger *slog.Logger) *Model {
	if params == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("params cannot be nil for network.Model")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Model{
		nodes:   make(map[string]*domain.UnitNode),
		edges:   make(map[edgeKey]*domain.UnitEdge),
		params:  params,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "network_model")),
	}
}

// RegisterNode inserts a unit node with zeroed stats and the given
// birth tier. Registering an already-present ID is an idempotent
// no-op: the existing node's stats are left untouched.
func (m *Model) RegisterNode(ctx context.Context, id, knownText, targetText, seedID string, birthTier domain.BeltTier) error {
	node := &domain.UnitNode{
		ID:            id,
		KnownText:     knownText,
		TargetText:    targetText,
		SeedID:        seedID,
		BirthBeltTier: birthTier,
	}
	if err := node.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.nodes[id]; ok {
		m.mu.Unlock()
		return nil
	}
	m.nodes[id] = node
	added := *node
	m.mu.Unlock()

	m.emit(ctx, EventNodeAdded, NodeAdded{Node: added})
	return nil
}

// Has reports whether a unit is registered.
func (m *Model) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[id]
	return ok
}

// NodeCount returns the current number of registered units.
func (m *Model) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// CurrentTier returns the belt tier for the model's current size. New
// nodes are typically registered with this value as their birth tier.
func (m *Model) CurrentTier() domain.BeltTier {
	return belt.TierFor(m.NodeCount(), m.params)
}

// HeroScale returns the visual-weight multiplier for the model's
// current size.
func (m *Model) HeroScale() float64 {
	return belt.HeroScale(m.NodeCount(), m.params)
}

// RegisterEdge records one co-occurrence of units a and b. The first
// call creates the edge with count 1; later calls increment the count.
// Argument order never matters: the pair is canonicalized. Both units
// must already be registered or ErrUnitNotFound is returned.
func (m *Model) RegisterEdge(ctx context.Context, a, b string) error {
	source, target := domain.CanonicalEdgeIDs(a, b)

	m.mu.Lock()
	if _, ok := m.nodes[source]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnitNotFound, source)
	}
	if _, ok := m.nodes[target]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnitNotFound, target)
	}

	key := edgeKey{source: source, target: target}
	if edge, ok := m.edges[key]; ok {
		edge.Count++
		m.mu.Unlock()
		return nil
	}

	edge := &domain.UnitEdge{SourceID: source, TargetID: target, Count: 1}
	m.edges[key] = edge
	added := *edge
	m.mu.Unlock()

	m.emit(ctx, EventEdgeAdded, EdgeAdded{Edge: added})
	return nil
}

// EdgeCount returns the co-occurrence count between a and b, or zero
// when no edge exists.
func (m *Model) EdgeCount(a, b string) int {
	source, target := domain.CanonicalEdgeIDs(a, b)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if edge, ok := m.edges[edgeKey{source: source, target: target}]; ok {
		return edge.Count
	}
	return 0
}

// RegisterPractice credits delta practices to a unit: the practice
// count grows, the mastery score takes a clamped step per practice,
// and the one-way eternal promotion rule is re-evaluated. Returns
// ErrUnitNotFound for unknown IDs.
func (m *Model) RegisterPractice(ctx context.Context, id string, delta int) error {
	if delta < 1 {
		delta = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnitNotFound, id)
	}

	node.TotalPractices += delta
	for i := 0; i < delta; i++ {
		node.MasteryScore = belt.NextMastery(node.MasteryScore, m.params)
	}

	if !node.IsEternal &&
		belt.QualifiesForEternal(node.TotalPractices, node.MasteryScore, m.params) {
		node.IsEternal = true
		m.logger.Debug("unit promoted to eternal",
			slog.String("unit_id", id),
			slog.Int("total_practices", node.TotalPractices))
	}

	return nil
}

// Node returns a copy of the unit node with the given ID.
func (m *Model) Node(id string) (domain.UnitNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if node, ok := m.nodes[id]; ok {
		return *node, true
	}
	return domain.UnitNode{}, false
}

func (m *Model) emit(ctx context.Context, eventType string, payload any) {
	if m.emitter == nil {
		return
	}
	if err := m.emitter.Emit(ctx, events.New(eventType, payload)); err != nil {
		m.logger.Warn("failed to emit network event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

// Package replay reconstructs network growth from a full item stream
// at accelerated speed. It reuses the orchestrator's generation-token
// cancellation discipline but is gated by fixed-interval timers
// instead of audio completion.
package replay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/network"
)

// EventFinished fires once when the replay index reaches the end of
// the queue and the simulator auto-stops.
const EventFinished = "replay.finished"

// Finished is the payload of an EventFinished event.
type Finished struct {
	Steps int
}

// ErrInvalidSpeed is returned for speeds outside the supported set.
var ErrInvalidSpeed = errors.New("replay speed must be one of 1, 2, 4, 8, 16")

// Speeds lists the supported acceleration factors.
var Speeds = []int{1, 2, 4, 8, 16}

// Config holds the simulator's timing knobs.
type Config struct {
	// BaseDelay is the step interval at 1x speed. The effective
	// interval is BaseDelay divided by the current speed.
	BaseDelay time.Duration
}

// DefaultConfig returns the step timing used by the progress replay view.
func DefaultConfig() Config {
	return Config{BaseDelay: 800 * time.Millisecond}
}

// Simulator steps through a flattened item queue, registering each
// unseen unit (with its birth tier taken from the network size at that
// moment) and any precomputed edges to units already registered.
// Registration idempotency in the network model is what makes
// Stop/Start sequences safe: replaying over already-registered ground
// never duplicates nodes or edges.
type Simulator struct {
	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	index      int
	speed      int
	running    bool

	queue []domain.LearningItem
	edges EdgeSet
	model *network.Model

	config  Config
	emitter events.Emitter
	logger  *slog.Logger
}

// NewSimulator creates a stopped Simulator over the given queue and
// precomputed edge set.
func NewSimulator(
	queue []domain.LearningItem,
	edges EdgeSet,
	model *network.Model,
	config Config,
	emitter events.Emitter,
	logger *slog.Logger,
) *Simulator {
	if model == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("model cannot be nil for Simulator")
	}

	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultConfig().BaseDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Simulator{
		speed:   1,
		queue:   queue,
		edges:   edges,
		model:   model,
		config:  config,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "replay_simulator")),
	}
}

// Running reports whether the simulator is currently stepping.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Index returns the number of items consumed so far.
func (s *Simulator) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// SetSpeed changes the acceleration factor. A change made while
// running applies from the next scheduled step; the in-flight step's
// timer is left untouched.
func (s *Simulator) SetSpeed(speed int) error {
	valid := false
	for _, allowed := range Speeds {
		if speed == allowed {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidSpeed
	}

	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
	return nil
}

// Start begins or resumes stepping. A completed replay restarts from
// the beginning; re-registration is a no-op thanks to the model's
// idempotent operations.
func (s *Simulator) Start(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	token := s.generation
	s.stopTimerLocked()
	if s.index >= len(s.queue) {
		s.index = 0
	}
	s.running = true
	s.mu.Unlock()

	if len(s.queue) == 0 {
		s.finish(ctx, token)
		return
	}

	s.scheduleStep(ctx, token)
}

// Stop halts stepping without losing position. Silent, idempotent.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.generation++
	s.stopTimerLocked()
	s.running = false
	s.mu.Unlock()
}

// scheduleStep arms the next step timer using the speed current at
// scheduling time.
func (s *Simulator) scheduleStep(ctx context.Context, token uint64) {
	s.mu.Lock()
	if token != s.generation {
		s.mu.Unlock()
		return
	}
	interval := s.config.BaseDelay / time.Duration(s.speed)
	s.timer = time.AfterFunc(interval, func() {
		s.step(ctx, token)
	})
	s.mu.Unlock()
}

// step consumes one queue item, mutating the network, then either
// schedules the next step or auto-stops at the end of the queue.
func (s *Simulator) step(ctx context.Context, token uint64) {
	s.mu.Lock()
	if token != s.generation {
		s.mu.Unlock()
		return
	}
	item := s.queue[s.index]
	s.index++
	done := s.index >= len(s.queue)
	s.mu.Unlock()

	s.apply(ctx, item)

	if done {
		s.finish(ctx, token)
		return
	}
	s.scheduleStep(ctx, token)
}

// apply registers the item's unit and, only at that first
// registration, its precomputed edges to units already present. Later
// recurrences of the unit (spaced reviews, restarts) must not touch
// edge counts: the later-created endpoint of each pair already formed
// the edge. Items without a unit are skipped; units without precomputed
// edges become isolated nodes without blocking the simulation.
func (s *Simulator) apply(ctx context.Context, item domain.LearningItem) {
	if item.UnitID == "" {
		return
	}

	if s.model.Has(item.UnitID) {
		return
	}

	birthTier := s.model.CurrentTier()
	err := s.model.RegisterNode(ctx,
		item.UnitID, item.KnownText, item.TargetText, "", birthTier)
	if err != nil {
		s.logger.Warn("failed to register replayed unit",
			slog.String("unit_id", item.UnitID),
			slog.String("error", err.Error()))
		return
	}

	for _, neighbor := range s.edges.Neighbors(item.UnitID) {
		if !s.model.Has(neighbor) {
			continue
		}
		if err := s.model.RegisterEdge(ctx, item.UnitID, neighbor); err != nil {
			s.logger.Warn("failed to register replayed edge",
				slog.String("unit_id", item.UnitID),
				slog.String("neighbor_id", neighbor),
				slog.String("error", err.Error()))
		}
	}
}

// finish auto-stops at the terminal condition and emits the finished
// event exactly once per run.
func (s *Simulator) finish(ctx context.Context, token uint64) {
	s.mu.Lock()
	if token != s.generation {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.stopTimerLocked()
	s.running = false
	steps := s.index

	// Emit before releasing the lock so the finished event stays
	// ordered with the token check; a concurrent Stop either wins the
	// race or waits out the delivery.
	if s.emitter != nil {
		if err := s.emitter.Emit(ctx, events.New(EventFinished, Finished{Steps: steps})); err != nil {
			s.logger.Warn("failed to emit replay event",
				slog.String("error", err.Error()))
		}
	}
	s.mu.Unlock()
}

// stopTimerLocked cancels the pending step timer. Callers must hold mu.
func (s *Simulator) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

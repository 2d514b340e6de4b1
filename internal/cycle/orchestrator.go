// Package cycle drives one learning item at a time through the audio
// practice phases: Prompt, Pause, Voice1, Voice2. The orchestrator
// owns the audio player for the duration of a cycle and uses a single
// monotonic generation counter for cooperative cancellation: every
// asynchronous continuation captures the generation at schedule time
// and silently aborts if the counter has moved on.
package cycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/lingo-api/internal/audio"
	"github.com/phrazzld/lingo-api/internal/decompose"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
)

// ErrAudioUnavailable is reported on the event stream when the
// mandatory Voice1 audio cannot be resolved.
var ErrAudioUnavailable = errors.New("no audio available for item")

// Config holds the orchestrator's timing knobs.
type Config struct {
	// PauseDuration is the silent thinking gap between the prompt and
	// the first target rendition.
	PauseDuration time.Duration

	// InterItemDelay separates an item's completion from the next
	// item's prompt.
	InterItemDelay time.Duration

	// PauseMultiplier stretches PauseDuration for contexts that want a
	// longer gap (exploratory browsing, replay). Zero means 1.0.
	PauseMultiplier float64
}

// DefaultConfig returns the timing used by regular practice sessions.
func DefaultConfig() Config {
	return Config{
		PauseDuration:   2 * time.Second,
		InterItemDelay:  600 * time.Millisecond,
		PauseMultiplier: 1.0,
	}
}

// Orchestrator runs the audio phase state machine for one queue of
// learning items. At most one phase is ever active per instance;
// starting a new cycle invalidates any in-flight one before the player
// is touched, so the player never sees overlapping play requests from
// the same orchestrator.
type Orchestrator struct {
	mu         sync.Mutex
	generation uint64
	phase      domain.CyclePhase
	queue      []domain.LearningItem
	index      int
	timers     map[*time.Timer]struct{}

	resolver audio.Resolver
	player   audio.Player
	config   Config

	emitter events.Emitter
	logger  *slog.Logger
}

// NewOrchestrator creates an idle Orchestrator.
func NewOrchestrator(
	resolver audio.Resolver,
	player audio.Player,
	config Config,
	emitter events.Emitter,
	logger *slog.Logger,
) *Orchestrator {
	if resolver == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("resolver cannot be nil for Orchestrator")
	}
	if player == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("player cannot be nil for Orchestrator")
	}

	if config.PauseMultiplier <= 0 {
		config.PauseMultiplier = 1.0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		phase:    domain.CyclePhaseIdle,
		timers:   make(map[*time.Timer]struct{}),
		resolver: resolver,
		player:   player,
		config:   config,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "cycle_orchestrator")),
	}
}

// Phase returns the currently active phase.
func (o *Orchestrator) Phase() domain.CyclePhase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Start begins cycling through queue from its first item. Any
// in-flight cycle is invalidated first: its pending timers are
// cancelled, its playback halted, and its stale continuations will
// no-op when they fire.
func (o *Orchestrator) Start(ctx context.Context, queue []domain.LearningItem) {
	o.mu.Lock()
	o.generation++
	token := o.generation
	o.cancelTimersLocked()
	o.queue = queue
	o.index = 0
	o.phase = domain.CyclePhaseIdle
	o.mu.Unlock()

	// Halt synchronously so the player is free before the new cycle's
	// first play request.
	o.player.Stop()

	if len(queue) == 0 {
		o.mu.Lock()
		if token == o.generation {
			o.emit(ctx, EventFinished, Finished{ItemsCompleted: 0})
		}
		o.mu.Unlock()
		return
	}

	o.enterPrompt(ctx, token)
}

// Stop invalidates the running cycle: the generation counter is
// bumped, all pending timers are cancelled, playback is halted, and
// the orchestrator returns to Idle. Cancellation is silent; no events
// are emitted. Safe to call at any time, including when idle.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.generation++
	o.cancelTimersLocked()
	o.phase = domain.CyclePhaseIdle
	o.mu.Unlock()

	o.player.Stop()
}

// enterPrompt starts the Prompt phase for the current item. Prompt
// audio is best-effort: resolution misses and playback failures alike
// fall through to the Pause phase.
func (o *Orchestrator) enterPrompt(ctx context.Context, token uint64) {
	item, ok := o.transition(ctx, token, domain.CyclePhasePrompt)
	if !ok {
		return
	}

	role := audio.RoleKnown
	key := promptKey(item)
	if item.Type == domain.ItemTypeIntro {
		role = audio.RoleIntro
	}

	ref, err := o.resolver.Resolve(ctx, key, role)
	if err != nil || ref == nil {
		if err != nil {
			o.logger.Debug("prompt resolution failed, degrading",
				slog.String("item_id", item.ID),
				slog.String("error", err.Error()))
		}
		o.enterPause(ctx, token)
		return
	}

	o.play(ctx, token, ref.URL, func(ctx context.Context, token uint64, playErr error) {
		if playErr != nil {
			o.logger.Debug("prompt playback failed, degrading",
				slog.String("item_id", item.ID),
				slog.String("error", playErr.Error()))
		}
		o.enterPause(ctx, token)
	})
}

// enterPause runs the thinking-gap timer. Intro items are
// presentation-only: after the pause they advance straight to the next
// item instead of being drilled through the voice phases.
func (o *Orchestrator) enterPause(ctx context.Context, token uint64) {
	item, ok := o.transition(ctx, token, domain.CyclePhasePause)
	if !ok {
		return
	}

	pause := time.Duration(float64(o.config.PauseDuration) * o.config.PauseMultiplier)
	o.schedule(token, pause, func(token uint64) {
		if item.Type == domain.ItemTypeIntro {
			o.completeItem(ctx, token)
			return
		}
		o.enterVoice1(ctx, token)
	})
}

// enterVoice1 plays the first target rendition. This audio is
// mandatory: a resolution miss or playback failure stops the cycle.
func (o *Orchestrator) enterVoice1(ctx context.Context, token uint64) {
	item, ok := o.transition(ctx, token, domain.CyclePhaseVoice1)
	if !ok {
		return
	}

	ref, err := o.resolver.Resolve(ctx, voiceKey(item), audio.RoleVoice1)
	if err == nil && ref == nil {
		err = ErrAudioUnavailable
	}
	if err != nil {
		o.failCycle(ctx, token, domain.CyclePhaseVoice1, item, err)
		return
	}

	o.play(ctx, token, ref.URL, func(ctx context.Context, token uint64, playErr error) {
		if playErr != nil {
			o.failCycle(ctx, token, domain.CyclePhaseVoice1, item, playErr)
			return
		}
		o.enterVoice2(ctx, token)
	})
}

// enterVoice2 plays the second target rendition. Best-effort: the item
// completes regardless of the outcome.
func (o *Orchestrator) enterVoice2(ctx context.Context, token uint64) {
	item, ok := o.transition(ctx, token, domain.CyclePhaseVoice2)
	if !ok {
		return
	}

	ref, err := o.resolver.Resolve(ctx, voiceKey(item), audio.RoleVoice2)
	if err != nil || ref == nil {
		o.completeItem(ctx, token)
		return
	}

	o.play(ctx, token, ref.URL, func(ctx context.Context, token uint64, playErr error) {
		if playErr != nil {
			o.logger.Debug("voice2 playback failed, completing item anyway",
				slog.String("item_id", item.ID),
				slog.String("error", playErr.Error()))
		}
		o.completeItem(ctx, token)
	})
}

// completeItem emits the completion event, waits out the inter-item
// delay, and either loads the next item or finishes the cycle.
func (o *Orchestrator) completeItem(ctx context.Context, token uint64) {
	o.mu.Lock()
	if token != o.generation {
		o.mu.Unlock()
		return
	}
	item := o.queue[o.index]
	o.emit(ctx, EventItemCompleted, ItemCompleted{Item: item})
	o.mu.Unlock()

	o.schedule(token, o.config.InterItemDelay, func(token uint64) {
		o.mu.Lock()
		if token != o.generation {
			o.mu.Unlock()
			return
		}
		o.index++
		done := o.index >= len(o.queue)
		completed := o.index
		if done {
			o.phase = domain.CyclePhaseIdle
			o.emit(ctx, EventPhaseChanged, PhaseChanged{Phase: domain.CyclePhaseIdle})
			o.emit(ctx, EventFinished, Finished{ItemsCompleted: completed})
		}
		o.mu.Unlock()

		if done {
			return
		}
		o.enterPrompt(ctx, token)
	})
}

// failCycle stops the cycle after a fatal Voice1 failure. The failure
// is reported on the event stream, never thrown across the async
// boundary.
func (o *Orchestrator) failCycle(ctx context.Context, token uint64, phase domain.CyclePhase, item domain.LearningItem, err error) {
	o.mu.Lock()
	if token != o.generation {
		o.mu.Unlock()
		return
	}
	o.generation++
	o.cancelTimersLocked()
	o.phase = domain.CyclePhaseIdle
	o.emit(ctx, EventError, Error{Phase: phase, Item: item, Err: err})
	o.mu.Unlock()

	o.player.Stop()

	o.logger.Warn("cycle stopped on mandatory audio failure",
		slog.String("item_id", item.ID),
		slog.String("phase", string(phase)),
		slog.String("error", err.Error()))
}

// transition atomically validates the token, moves to the given phase,
// and emits the phase-change event before releasing the lock, so a
// concurrent Stop or Start can never interleave between the check and
// the emit. A false result means the cycle was cancelled and the
// caller must abort without side effects.
func (o *Orchestrator) transition(ctx context.Context, token uint64, phase domain.CyclePhase) (domain.LearningItem, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.generation || o.index >= len(o.queue) {
		return domain.LearningItem{}, false
	}
	o.phase = phase
	item := o.queue[o.index]
	o.emit(ctx, EventPhaseChanged, PhaseChanged{Phase: phase, Item: item})
	return item, true
}

// play runs the blocking player call off the orchestrator goroutine
// and revalidates the token before invoking the continuation.
func (o *Orchestrator) play(ctx context.Context, token uint64, url string, done func(context.Context, uint64, error)) {
	go func() {
		err := o.player.Play(ctx, url)

		o.mu.Lock()
		stale := token != o.generation
		o.mu.Unlock()
		if stale {
			return
		}
		done(ctx, token, err)
	}()
}

// schedule arms a timer tracked in the pending set. The continuation
// revalidates its token when the timer fires; Stop and Start cancel
// the whole set.
func (o *Orchestrator) schedule(token uint64, d time.Duration, fn func(uint64)) {
	o.mu.Lock()
	if token != o.generation {
		o.mu.Unlock()
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		o.mu.Lock()
		delete(o.timers, timer)
		stale := token != o.generation
		o.mu.Unlock()
		if stale {
			return
		}
		fn(token)
	})
	o.timers[timer] = struct{}{}
	o.mu.Unlock()
}

// cancelTimersLocked stops every pending timer. Callers must hold mu.
func (o *Orchestrator) cancelTimersLocked() {
	for timer := range o.timers {
		timer.Stop()
	}
	o.timers = make(map[*time.Timer]struct{})
}

// emit dispatches an event. Callers hold mu so delivery stays ordered
// with the generation check that authorized it; handlers therefore
// must not call back into the orchestrator.
func (o *Orchestrator) emit(ctx context.Context, eventType string, payload any) {
	if o.emitter == nil {
		return
	}
	if err := o.emitter.Emit(ctx, events.New(eventType, payload)); err != nil {
		o.logger.Warn("failed to emit cycle event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

// promptKey picks the resolver key for the Prompt phase: the unit ID
// when the item has one, otherwise the normalized known text.
func promptKey(item domain.LearningItem) string {
	if item.UnitID != "" {
		return item.UnitID
	}
	return decompose.Normalize(item.KnownText)
}

// voiceKey picks the resolver key for the Voice phases.
func voiceKey(item domain.LearningItem) string {
	if item.UnitID != "" {
		return item.UnitID
	}
	return decompose.Normalize(item.TargetText)
}

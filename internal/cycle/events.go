package cycle

import (
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Event types emitted on the orchestrator's event stream.
const (
	EventPhaseChanged  = "cycle.phase_changed"
	EventItemCompleted = "cycle.item_completed"
	EventFinished      = "cycle.finished"
	EventError         = "cycle.error"
)

// PhaseChanged is the payload of an EventPhaseChanged event. Item is
// the zero value for the terminal transition back to Idle.
type PhaseChanged struct {
	Phase domain.CyclePhase
	Item  domain.LearningItem
}

// ItemCompleted is the payload of an EventItemCompleted event.
type ItemCompleted struct {
	Item domain.LearningItem
}

// Finished is the payload of an EventFinished event, emitted once when
// the queue is exhausted.
type Finished struct {
	ItemsCompleted int
}

// Error is the payload of an EventError event. Cancellation is never
// reported here; only resolution misses and playback failures in the
// mandatory Voice1 phase are.
type Error struct {
	Phase domain.CyclePhase
	Item  domain.LearningItem
	Err   error
}

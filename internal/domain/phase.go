package domain

// CyclePhase identifies which step of the audio practice cycle an
// orchestrator is currently in. Exactly one phase is active per
// orchestrator instance at any time.
type CyclePhase string

// Cycle phases in transition order.
const (
	// CyclePhaseIdle means no cycle is running.
	CyclePhaseIdle CyclePhase = "idle"

	// CyclePhasePrompt plays the prompt audio (intro or known-language).
	CyclePhasePrompt CyclePhase = "prompt"

	// CyclePhasePause is the silent thinking gap before the target audio.
	CyclePhasePause CyclePhase = "pause"

	// CyclePhaseVoice1 plays the first, mandatory target rendition.
	CyclePhaseVoice1 CyclePhase = "voice1"

	// CyclePhaseVoice2 plays the second, best-effort target rendition.
	CyclePhaseVoice2 CyclePhase = "voice2"
)

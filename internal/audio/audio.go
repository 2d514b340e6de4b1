// Package audio defines the contracts the practice engine uses to
// locate and play audio. Implementations live under internal/platform;
// the engine itself never touches codecs or transports.
package audio

import (
	"context"
)

// Role identifies which rendition of an item's audio is wanted.
type Role string

// Audio roles used by the cycle orchestrator.
const (
	// RoleIntro is the presentation audio for a brand-new unit.
	RoleIntro Role = "intro"

	// RoleKnown is the known-language prompt audio.
	RoleKnown Role = "known"

	// RoleVoice1 is the first target-language rendition.
	RoleVoice1 Role = "voice1"

	// RoleVoice2 is the second target-language rendition.
	RoleVoice2 Role = "voice2"
)

// SourceSchema tags which naming scheme a reference was resolved under.
type SourceSchema string

// Known source schemas, newest first in fallback order.
const (
	SchemaCurrent SourceSchema = "current"
	SchemaLegacy  SourceSchema = "legacy"
)

// Reference is a resolved, playable audio entry.
type Reference struct {
	Role         Role         `json:"role"`
	URL          string       `json:"url"`
	SourceSchema SourceSchema `json:"source_schema"`
}

// Resolver maps an item key (unit ID or normalized text) and role to a
// playable reference. A miss is not an error: implementations return
// (nil, nil) when no audio exists under any schema, and reserve the
// error return for real lookup failures.
type Resolver interface {
	Resolve(ctx context.Context, key string, role Role) (*Reference, error)
}

// Player plays one URL at a time. Play blocks until playback ends
// naturally or fails; Stop halts any in-progress playback before
// returning and is safe to call when nothing is playing.
type Player interface {
	Play(ctx context.Context, url string) error
	Stop()
}

// Package audiocdn resolves audio references against a CDN manifest.
// The manifest lists every recorded clip under the naming schema it
// was published with; resolution prefers the current schema and falls
// back to legacy entries so old recordings stay playable.
package audiocdn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/lingo-api/internal/audio"
)

// ManifestEntry is one clip in the CDN manifest.
type ManifestEntry struct {
	Key    string             `json:"key"`
	Role   audio.Role         `json:"role"`
	Path   string             `json:"path"`
	Schema audio.SourceSchema `json:"schema"`
}

// Manifest is the on-disk manifest shape.
type Manifest struct {
	Entries []ManifestEntry `json:"entries"`
}

type indexKey struct {
	key  string
	role audio.Role
}

// Resolver implements audio.Resolver over a loaded manifest.
type Resolver struct {
	baseURL string
	// current and legacy are separate indexes so the fallback chain
	// stays explicit: current schema first, legacy second, then miss.
	current map[indexKey]string
	legacy  map[indexKey]string
	logger  *slog.Logger
}

// Ensure Resolver implements audio.Resolver
var _ audio.Resolver = (*Resolver)(nil)

// NewResolver builds a Resolver from an in-memory manifest.
func NewResolver(baseURL string, manifest Manifest, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		current: make(map[indexKey]string),
		legacy:  make(map[indexKey]string),
		logger:  logger.With(slog.String("component", "audiocdn_resolver")),
	}

	for _, entry := range manifest.Entries {
		key := indexKey{key: entry.Key, role: entry.Role}
		switch entry.Schema {
		case audio.SchemaLegacy:
			r.legacy[key] = entry.Path
		default:
			r.current[key] = entry.Path
		}
	}

	return r
}

// LoadResolver reads a manifest file and builds a Resolver from it.
func LoadResolver(baseURL, manifestPath string, logger *slog.Logger) (*Resolver, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio manifest %s: %w", manifestPath, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse audio manifest %s: %w", manifestPath, err)
	}

	return NewResolver(baseURL, manifest, logger), nil
}

// Resolve implements audio.Resolver. It tries the current schema
// first, then legacy, and returns (nil, nil) when neither has the
// clip; misses are expected and left to the caller's phase policy.
func (r *Resolver) Resolve(ctx context.Context, key string, role audio.Role) (*audio.Reference, error) {
	lookup := indexKey{key: key, role: role}

	if path, ok := r.current[lookup]; ok {
		return &audio.Reference{
			Role:         role,
			URL:          r.baseURL + "/" + strings.TrimLeft(path, "/"),
			SourceSchema: audio.SchemaCurrent,
		}, nil
	}

	if path, ok := r.legacy[lookup]; ok {
		return &audio.Reference{
			Role:         role,
			URL:          r.baseURL + "/" + strings.TrimLeft(path, "/"),
			SourceSchema: audio.SchemaLegacy,
		}, nil
	}

	r.logger.Debug("audio resolution miss",
		slog.String("key", key),
		slog.String("role", string(role)))
	return nil, nil
}

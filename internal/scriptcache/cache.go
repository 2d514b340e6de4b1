// Package scriptcache caches generated curriculum scripts keyed by
// generator config. The cache is strictly best-effort: callers treat
// read failures as misses and swallow write failures, so a broken
// cache degrades to regeneration, never to a user-facing error.
package scriptcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// DefaultSchemaVersion is bumped whenever the script shape changes so
// stale cached entries stop matching and get regenerated.
const DefaultSchemaVersion = 2

// Cache stores generated scripts. A nil script with a nil error from
// Get means a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.Script, error)
	Put(ctx context.Context, key string, script *domain.Script) error
}

// Key builds the versioned cache key for a generation request. The
// config bytes are hashed, so arbitrary generator configs produce
// fixed-size keys, and the schema version prefix invalidates every
// entry written under an older script shape.
func Key(schemaVersion int, config []byte, maxUnits int) string {
	sum := sha256.Sum256(config)
	return fmt.Sprintf("v%d:%d:%s", schemaVersion, maxUnits, hex.EncodeToString(sum[:]))
}

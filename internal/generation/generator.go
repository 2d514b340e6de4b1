// Package generation defines the interface for curriculum script
// generation. Implementations live under platform, keeping LLM client
// details out of the services that consume them.
package generation

import (
	"context"
	"encoding/json"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// ScriptGenerator produces a curriculum script from a generator config.
// The config is opaque JSON owned by the content provider: typically
// the language pair, topic constraints, and seed vocabulary. maxUnits
// caps how many new units the script may introduce.
type ScriptGenerator interface {
	// GenerateScript creates a complete curriculum script.
	GenerateScript(ctx context.Context, config json.RawMessage, maxUnits int) (*domain.Script, error)
}

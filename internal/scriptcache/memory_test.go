package scriptcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/domain"
)

func sampleScript() *domain.Script {
	return &domain.Script{
		Rounds: []domain.Round{{
			RoundNumber: 1,
			UnitID:      "u1",
			Items: []domain.LearningItem{{
				ID:          "i1",
				Type:        domain.ItemTypeDebut,
				UnitID:      "u1",
				KnownText:   "water",
				TargetText:  "agua",
				RoundNumber: 1,
			}},
		}},
	}
}

func TestMemoryCacheMissIsNilNil(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache()
	script, err := cache.Get(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, script)
}

func TestMemoryCachePutGet(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache()
	ctx := context.Background()
	key := Key(DefaultSchemaVersion, []byte(`{}`), 10)

	require.NoError(t, cache.Put(ctx, key, sampleScript()))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleScript(), got)
}

func TestMemoryCachePutNilIsNoop(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key", nil))

	got, err := cache.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache()
	ctx := context.Background()

	first := sampleScript()
	require.NoError(t, cache.Put(ctx, "key", first))

	second := sampleScript()
	second.Rounds[0].UnitID = "u2"
	require.NoError(t, cache.Put(ctx, "key", second))

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.Rounds[0].UnitID)
}

package scriptcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDeterministic(t *testing.T) {
	t.Parallel()

	config := []byte(`{"seed_pack":"spanish-core"}`)

	first := Key(2, config, 50)
	second := Key(2, config, 50)
	assert.Equal(t, first, second)

	assert.True(t, strings.HasPrefix(first, "v2:50:"), "key %q should carry version and cap prefix", first)
	// sha256 hex digest after the prefix.
	assert.Len(t, first, len("v2:50:")+64)
}

func TestKeySensitivity(t *testing.T) {
	t.Parallel()

	config := []byte(`{"seed_pack":"spanish-core"}`)
	base := Key(2, config, 50)

	assert.NotEqual(t, base, Key(3, config, 50), "schema version change must invalidate")
	assert.NotEqual(t, base, Key(2, config, 51), "unit cap change must invalidate")
	assert.NotEqual(t, base, Key(2, []byte(`{"seed_pack":"french-core"}`), 50))
}

func TestKeyHandlesArbitraryConfigSize(t *testing.T) {
	t.Parallel()

	small := Key(2, []byte(`{}`), 10)
	large := Key(2, []byte(strings.Repeat(`{"k":"v"}`, 10000)), 10)

	// Hashing keeps keys fixed-size regardless of config size.
	assert.Equal(t, len(small), len(large))
}

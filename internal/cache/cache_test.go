package cache

import (
	"testing"

	"github.com/flowarts/pictograph/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCache_EmptyUntilSet(t *testing.T) {
	c := NewKeyCache()
	_, ok := c.Get()
	assert.False(t, ok)

	c.Add("pro")
	_, ok = c.Get()
	assert.False(t, ok, "Add on an empty cache must not make it valid")
}

func TestKeyCache_SetGetAdd(t *testing.T) {
	c := NewKeyCache()
	c.Set(placement.NewKeySet("pro", "anti"))
	c.Add("dash")

	keys, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"anti", "dash", "pro"}, keys.Keys())
}

func TestKeyCache_ReturnsCopies(t *testing.T) {
	c := NewKeyCache()
	src := placement.NewKeySet("pro")
	c.Set(src)
	src["anti"] = struct{}{}

	keys, _ := c.Get()
	keys["static"] = struct{}{}

	again, _ := c.Get()
	assert.Equal(t, []string{"pro"}, again.Keys())
}

func TestKeyCache_Reset(t *testing.T) {
	c := NewKeyCache()
	c.Set(placement.NewKeySet("pro"))
	c.Reset()

	_, ok := c.Get()
	assert.False(t, ok)
}

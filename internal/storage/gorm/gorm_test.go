package gormstorage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/flowarts/pictograph/internal/database"
	"github.com/flowarts/pictograph/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "placements.db"), zerolog.New(io.Discard))
	require.NoError(t, err)

	b := New(db, nil)
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func TestInit_CreatesTable(t *testing.T) {
	b := newTestBackend(t)
	assert.True(t, b.DB().Migrator().HasTable("placements"))
}

func TestPutAndOffset(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Put(core.PlacementEntry{
		Key:     "pro_to_layer3_radial_gamma_M",
		Offsets: map[string]core.Offset{"0": {X: -3, Y: 7.5}, "2": {X: 4, Y: 4}},
	}))

	off, ok, err := b.Offset("pro_to_layer3_radial_gamma_M", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.Offset{X: -3, Y: 7.5}, off)

	_, ok, err = b.Offset("pro_to_layer3_radial_gamma_M", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = b.Offset("nothing", 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_Upserts(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Put(core.PlacementEntry{Key: "anti", Offsets: map[string]core.Offset{"0": {X: 1}}}))
	require.NoError(t, b.Put(core.PlacementEntry{Key: "anti", Offsets: map[string]core.Offset{"0": {X: 2}}}))

	off, ok, err := b.Offset("anti", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.0, off.X)

	var count int64
	require.NoError(t, b.DB().Model(&PlacementRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPut_EmptyKey(t *testing.T) {
	b := newTestBackend(t)
	assert.ErrorIs(t, b.Put(core.PlacementEntry{}), core.ErrEmptyPlacementKey)
}

func TestKeys(t *testing.T) {
	b := newTestBackend(t)

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, b.Put(core.PlacementEntry{Key: "pro"}))
	require.NoError(t, b.Put(core.PlacementEntry{Key: "dash_to_layer1_alpha"}))

	keys, err = b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"dash_to_layer1_alpha", "pro"}, keys.Keys())
}

func TestClose_WithoutInit(t *testing.T) {
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "placements.db"), zerolog.New(io.Discard))
	require.NoError(t, err)

	b := New(db, nil)
	require.NoError(t, b.Close())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

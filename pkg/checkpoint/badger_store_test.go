package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore_RoundTrip(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	defer store.Close()

	want := testSnapshot()
	require.NoError(t, store.Save(want))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestBadgerStore_LoadAbsent(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	defer store.Close()

	snap, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, snap)
}

func TestBadgerStore_SaveOverwrites(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	defer store.Close()

	first := testSnapshot()
	require.NoError(t, store.Save(first))

	second := testSnapshot()
	second.Visited = append(second.Visited, second.Frontier[0])
	second.Frontier = nil
	second.Queued = nil
	require.NoError(t, store.Save(second))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBadgerStore(dir, testLogger())
	require.NoError(t, err)
	want := testSnapshot()
	require.NoError(t, store.Save(want))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

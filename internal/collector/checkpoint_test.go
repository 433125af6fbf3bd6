package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointStore_MissingFileStartsAtZero(t *testing.T) {
	cs := NewCheckpointStore(t.TempDir())

	index, err := cs.Load("golang", "top", "all")
	require.NoError(t, err)
	assert.Zero(t, index)
}

func TestCheckpointStore_SaveAndLoad(t *testing.T) {
	cs := NewCheckpointStore(t.TempDir())

	require.NoError(t, cs.Save("golang", "top", "all", 42))

	index, err := cs.Load("golang", "top", "all")
	require.NoError(t, err)
	assert.Equal(t, 42, index)
}

func TestCheckpointStore_KeysAreIndependent(t *testing.T) {
	cs := NewCheckpointStore(t.TempDir())

	require.NoError(t, cs.Save("golang", "top", "all", 10))
	require.NoError(t, cs.Save("golang", "top", "week", 3))
	require.NoError(t, cs.Save("science", "hot", "all", 7))

	index, err := cs.Load("golang", "top", "all")
	require.NoError(t, err)
	assert.Equal(t, 10, index)

	index, err = cs.Load("golang", "top", "week")
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	index, err = cs.Load("science", "hot", "all")
	require.NoError(t, err)
	assert.Equal(t, 7, index)
}

func TestCheckpointStore_OverwriteSameKey(t *testing.T) {
	cs := NewCheckpointStore(t.TempDir())

	require.NoError(t, cs.Save("golang", "new", "all", 1))
	require.NoError(t, cs.Save("golang", "new", "all", 2))

	index, err := cs.Load("golang", "new", "all")
	require.NoError(t, err)
	assert.Equal(t, 2, index)
}

func TestCheckpointStore_CorruptFileSurfacesError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, checkpointFilename), []byte("not json"), 0o644))

	cs := NewCheckpointStore(dir)
	_, err := cs.Load("golang", "top", "all")
	assert.Error(t, err)
}

package logfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mpratt/devtrail/internal/logfile"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendCreatesFile(t *testing.T) {
	dir := t.TempDir()
	store := logfile.NewStore(filepath.Join(dir, ".devtrail", "activity.log"))

	require.NoError(t, store.Append("first line"))
	require.NoError(t, store.Append("second line"))

	lines, err := store.ReadLines()
	require.NoError(t, err)
	require.Equal(t, []string{"first line", "second line"}, lines)
}

func TestStoreReadMissingFile(t *testing.T) {
	store := logfile.NewStore(filepath.Join(t.TempDir(), "activity.log"))

	lines, err := store.ReadLines()
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestStoreUpdateRewrites(t *testing.T) {
	store := logfile.NewStore(filepath.Join(t.TempDir(), "activity.log"))
	require.NoError(t, store.Append("a"))
	require.NoError(t, store.Append("b"))
	require.NoError(t, store.Append("c"))

	err := store.Update(func(content []byte) ([]byte, bool, error) {
		require.Equal(t, "a\nb\nc\n", string(content))
		return []byte("c\n"), true, nil
	})
	require.NoError(t, err)

	lines, err := store.ReadLines()
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, lines)
}

func TestStoreUpdateSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	store := logfile.NewStore(path)
	require.NoError(t, store.Append("keep me"))

	err := store.Update(func(content []byte) ([]byte, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "keep me\n", string(data))
}

func TestStoreUpdateMissingFile(t *testing.T) {
	store := logfile.NewStore(filepath.Join(t.TempDir(), "activity.log"))

	called := false
	err := store.Update(func(content []byte) ([]byte, bool, error) {
		called = true
		return nil, false, nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestStoreUpdatePropagatesError(t *testing.T) {
	store := logfile.NewStore(filepath.Join(t.TempDir(), "activity.log"))
	require.NoError(t, store.Append("x"))

	boom := errors.New("boom")
	err := store.Update(func(content []byte) ([]byte, bool, error) {
		return nil, false, boom
	})
	require.ErrorIs(t, err, boom)
}

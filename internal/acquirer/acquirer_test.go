package acquirer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_LocalDirectoryIsBorrowed(t *testing.T) {
	dir := t.TempDir()
	wc, err := Acquire(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, wc.Owned)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, wc.Path)

	// Cleanup on a borrowed copy must never remove the caller's directory.
	wc.Cleanup()
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestAcquire_FileURILocalDirectory(t *testing.T) {
	dir := t.TempDir()
	wc, err := Acquire(context.Background(), "file://"+dir)
	require.NoError(t, err)
	assert.False(t, wc.Owned)
}

func TestWorkingCopy_CleanupNoopOnZeroValue(t *testing.T) {
	var wc WorkingCopy
	assert.NotPanics(t, func() { wc.Cleanup() })
}

func TestWorkingCopy_CleanupRemovesOwnedCopy(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "owned")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	wc := WorkingCopy{Path: sub, Owned: true}
	wc.Cleanup()

	_, err := os.Stat(sub)
	assert.True(t, os.IsNotExist(err))
}

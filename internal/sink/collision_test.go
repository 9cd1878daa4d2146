package sink

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finish(t *testing.T, r *Reservation, content string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))
	require.NoError(t, r.CopyFrom(src))
}

func TestUniquifyCreatesFreshFile(t *testing.T) {
	dir := t.TempDir()

	r, err := Reserve(dir, "IM000001", Uniquify, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "IM000001"), r.Path)
	finish(t, r, "one")
}

func TestUniquifyNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IM000001"), []byte("original"), 0o644))

	r, err := Reserve(dir, "IM000001", Uniquify, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "IM000001_1"), r.Path)
	finish(t, r, "second")

	data, err := os.ReadFile(filepath.Join(dir, "IM000001"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestUniquifySuffixBeforeExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.dcm"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan_1.dcm"), nil, 0o644))

	r, err := Reserve(dir, "scan.dcm", Uniquify, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scan_2.dcm"), r.Path)
	r.Abort()
}

func TestGuardedSkipsExistingWithoutForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.dcm"), []byte("original"), 0o644))

	_, err := Reserve(dir, "scan.dcm", Guarded, false)
	assert.ErrorIs(t, err, ErrDestinationExists)

	data, err := os.ReadFile(filepath.Join(dir, "scan.dcm"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestGuardedOverwritesWithForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.dcm"), []byte("original"), 0o644))

	r, err := Reserve(dir, "scan.dcm", Guarded, true)
	require.NoError(t, err)
	finish(t, r, "replacement")

	data, err := os.ReadFile(filepath.Join(dir, "scan.dcm"))
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(data))
}

func TestReserveCreatesNestedDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	r, err := Reserve(dir, "scan.dcm", Uniquify, false)
	require.NoError(t, err)
	finish(t, r, "data")

	_, err = os.Stat(filepath.Join(dir, "scan.dcm"))
	assert.NoError(t, err)
}

func TestConcurrentReservationsGetDistinctPaths(t *testing.T) {
	dir := t.TempDir()

	const n = 16
	paths := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := Reserve(dir, "scan.dcm", Uniquify, false)
			if err != nil {
				t.Error(err)
				return
			}
			paths[i] = r.Path
			r.close()
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		assert.False(t, seen[p], "path %s reserved twice", p)
		seen[p] = true
	}
}

func TestAbortRemovesPlaceholder(t *testing.T) {
	dir := t.TempDir()

	r, err := Reserve(dir, "scan.dcm", Uniquify, false)
	require.NoError(t, err)
	r.Abort()

	_, err = os.Stat(filepath.Join(dir, "scan.dcm"))
	assert.True(t, os.IsNotExist(err))
}

func TestMoveFrom(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "src.dcm")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	r, err := Reserve(dir, "dst.dcm", Guarded, false)
	require.NoError(t, err)
	require.NoError(t, r.MoveFrom(src))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(dir, "dst.dcm"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

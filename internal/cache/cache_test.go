package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrReadRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	c := New()
	data, err := c.GetOrRead(path, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("2345"), data)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.EqualValues(t, 4, stats.TotalBytes)
}

func TestGetOrReadWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0644))

	c := New()
	data, err := c.GetOrRead(path, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), data)

	data, err = c.GetOrRead(path, 4, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("ef"), data)
}

func TestMtimeInvalidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("old!"), 0644))

	c := New()
	data, err := c.GetOrRead(path, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("old!"), data)

	// Rewrite with a different mtime; the stale entry must be replaced.
	require.NoError(t, os.WriteFile(path, []byte("new!"), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	data, err = c.GetOrRead(path, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("new!"), data)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	c := New()
	_, err := c.GetOrRead(path, 0, 3)
	require.NoError(t, err)
	require.Equal(t, 1, c.Stats().Entries)

	c.Clear()
	stats := c.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.EqualValues(t, 0, stats.TotalBytes)
}

func TestMissingFile(t *testing.T) {
	c := New()
	_, err := c.GetOrRead("/no/such/file", 0, 1)
	require.Error(t, err)
}

func TestShortRangeFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	c := New()
	_, err := c.GetOrRead(path, 0, 10)
	require.Error(t, err, "a range past EOF must not be zero-padded")
}

func TestConcurrentReaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("concurrent bytes"), 0644))

	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.GetOrRead(path, 0, 16)
			assert.NoError(t, err)
			assert.Equal(t, []byte("concurrent bytes"), data)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Stats().Entries)
}

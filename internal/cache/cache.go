// Package cache memoizes byte ranges of files on disk, keyed by
// (path, offset, size) and validated against the file's modification
// time. Instances are injectable so callers and tests can hold isolated
// caches; all mutation happens under an internal lock.
package cache

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type key struct {
	path   string
	offset int64
	size   int64
}

type entry struct {
	data  []byte
	mtime time.Time
}

// DataCache memoizes file byte ranges. The zero value is not usable;
// construct with New.
type DataCache struct {
	mu         sync.Mutex
	entries    map[key]entry
	totalBytes int64
}

// Stats describes cache occupancy.
type Stats struct {
	Entries    int
	TotalBytes int64
}

// New returns an empty cache.
func New() *DataCache {
	return &DataCache{entries: make(map[key]entry)}
}

// GetOrRead returns the byte range [offset, offset+size) of the file at
// path, serving from the cache when the file's mtime still matches the
// cached value. A negative size means "from offset to end of file".
// Callers must not mutate the returned slice.
func (c *DataCache) GetOrRead(path string, offset, size int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	k := key{path: path, offset: offset, size: size}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && e.mtime.Equal(info.ModTime()) {
		c.mu.Unlock()
		return e.data, nil
	}
	c.mu.Unlock()

	data, err := readRange(path, offset, size)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if old, ok := c.entries[k]; ok {
		c.totalBytes -= int64(len(old.data))
	}
	c.entries[k] = entry{data: data, mtime: info.ModTime()}
	c.totalBytes += int64(len(data))
	c.mu.Unlock()

	return data, nil
}

// Clear drops all entries.
func (c *DataCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[key]entry)
	c.totalBytes = 0
	c.mu.Unlock()
}

// Stats returns the current entry count and total cached bytes.
func (c *DataCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), TotalBytes: c.totalBytes}
}

func readRange(path string, offset, size int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if size < 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		size = info.Size() - offset
		if size < 0 {
			size = 0
		}
	}

	data := make([]byte, size)
	n, err := f.ReadAt(data, offset)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, fmt.Errorf("reading %d bytes at offset %d of %s: %w", size, offset, path, err)
	}
	return data, nil
}

package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/docsnip/internal/snippet"
)

const (
	// DefaultCacheLines bounds how many file lines one build keeps in memory.
	DefaultCacheLines = 1 << 20

	// binarySniffLen is how many leading bytes are checked for NUL bytes.
	binarySniffLen = 8000

	markerTag = "code_snippet"
)

// ErrFileTooLarge indicates a file above the configured size limit. Its
// contents are never searched.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// fileEntry is what the cache holds per path. lines is nil for files that
// were skipped or carry no marker at all.
type fileEntry struct {
	lines []string
	size  int64 // set only for files over the size limit
}

// FileCache keeps the lines of files read during one build so that many
// directives against the same repository read each file once. It must be
// discarded at the end of the build.
type FileCache struct {
	cache       otter.Cache[string, *fileEntry]
	maxFileSize int64
}

// NewFileCache creates a cache bounded to roughly capacityLines lines.
// Files larger than maxFileSize bytes are never read; zero disables the limit.
func NewFileCache(capacityLines int, maxFileSize int64) (*FileCache, error) {
	if capacityLines <= 0 {
		capacityLines = DefaultCacheLines
	}
	cache, err := otter.MustBuilder[string, *fileEntry](capacityLines).
		CollectStats().
		Cost(func(key string, value *fileEntry) uint32 {
			return uint32(len(value.lines)) + 1
		}).
		Build()
	if err != nil {
		return nil, err
	}
	return &FileCache{cache: cache, maxFileSize: maxFileSize}, nil
}

// Lines returns the lines of path. It returns nil lines without error for
// binary files and files without a snippet marker, and ErrFileTooLarge for
// files over the size limit.
func (c *FileCache) Lines(path string) ([]string, error) {
	entry, ok := c.cache.Get(path)
	if !ok {
		var err error
		if entry, err = c.read(path); err != nil {
			return nil, err
		}
		c.cache.Set(path, entry)
	}

	if entry.size > 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, path, entry.size, c.maxFileSize)
	}
	return entry.lines, nil
}

func (c *FileCache) read(path string) (*fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, snippet.WrapIO(path, err)
	}
	if c.maxFileSize > 0 && info.Size() > c.maxFileSize {
		return &fileEntry{size: info.Size()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, snippet.WrapIO(path, err)
	}
	if isBinary(data) || !bytes.Contains(data, []byte(markerTag)) {
		return &fileEntry{}, nil
	}
	return &fileEntry{lines: snippet.SplitLines(string(data))}, nil
}

// Stats reports cache hits and misses so far.
func (c *FileCache) Stats() (hits, misses int64) {
	s := c.cache.Stats()
	return s.Hits(), s.Misses()
}

// Close releases the cache.
func (c *FileCache) Close() {
	c.cache.Close()
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

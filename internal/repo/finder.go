package repo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mvp-joe/docsnip/internal/snippet"
)

// Finder searches one repository root for named snippets. Files are
// enumerated once, in lexical path order, and the first file holding a start
// marker for the name wins.
type Finder struct {
	root      Root
	discovery *FileDiscovery
	cache     *FileCache

	once  sync.Once
	files []string
	err   error
}

// NewFinder creates a finder over root's files.
func NewFinder(root Root, discovery *FileDiscovery, cache *FileCache) *Finder {
	return &Finder{
		root:      root,
		discovery: discovery,
		cache:     cache,
	}
}

// Files returns the candidate files, discovering them on first call.
func (f *Finder) Files() ([]string, error) {
	f.once.Do(func() {
		f.files, f.err = f.discovery.DiscoverFiles()
		if f.err != nil {
			f.err = snippet.WrapIO(f.root.Path, f.err)
		}
	})
	return f.files, f.err
}

// Find extracts the snippet called name.
func (f *Finder) Find(name string) (snippet.Block, error) {
	files, err := f.Files()
	if err != nil {
		return snippet.Block{}, err
	}

	var oversize []string
	for _, path := range files {
		lines, err := f.cache.Lines(path)
		if errors.Is(err, ErrFileTooLarge) {
			oversize = append(oversize, f.relative(path))
			continue
		}
		if err != nil {
			return snippet.Block{}, err
		}
		if lines == nil {
			continue
		}

		block, err := snippet.Extract(lines, name)
		if errors.Is(err, snippet.ErrSnippetNotFound) {
			continue
		}
		if err != nil {
			return snippet.Block{}, fmt.Errorf("%s: %w", f.relative(path), err)
		}
		block.Source = path
		return block, nil
	}

	if len(oversize) > 0 {
		return snippet.Block{}, fmt.Errorf("%w: could not find code snippet %q under repo %q; files over the size limit were not searched: %s",
			snippet.ErrSnippetNotFound, name, f.root.Alias, strings.Join(oversize, ", "))
	}
	return snippet.Block{}, fmt.Errorf("%w: could not find code snippet %q under repo %q",
		snippet.ErrSnippetNotFound, name, f.root.Alias)
}

func (f *Finder) relative(path string) string {
	if rel, err := filepath.Rel(f.root.Path, path); err == nil {
		return filepath.Join(f.root.Alias, rel)
	}
	return path
}

// Package repo maps repository aliases to local checkouts and searches those
// checkouts for code snippets.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/docsnip/internal/snippet"
)

// ErrRepoAliasUnresolved indicates a directive names an alias missing from the configuration
var ErrRepoAliasUnresolved = errors.New("repository alias unresolved")

// Root is a repository alias resolved to a local directory.
type Root struct {
	Alias string
	Path  string
}

// Resolver maps aliases to local checkout directories. It is read-only
// once built and safe for concurrent use.
type Resolver struct {
	roots map[string]Root
}

// NewResolver creates a resolver from an alias -> path mapping. Relative
// paths are resolved against baseDir. Aliases are matched case-insensitively.
func NewResolver(sections map[string]string, baseDir string) *Resolver {
	r := &Resolver{roots: make(map[string]Root, len(sections))}
	for alias, path := range sections {
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		r.roots[strings.ToLower(alias)] = Root{Alias: alias, Path: filepath.Clean(path)}
	}
	return r
}

// Resolve returns the root for alias. The directory must exist; a missing or
// unreadable directory is reported as snippet.ErrIO.
func (r *Resolver) Resolve(alias string) (Root, error) {
	root, ok := r.roots[strings.ToLower(alias)]
	if !ok {
		return Root{}, fmt.Errorf("%w: dependent section %q not defined", ErrRepoAliasUnresolved, alias)
	}

	info, err := os.Stat(root.Path)
	if err != nil {
		return Root{}, snippet.WrapIO(root.Path, err)
	}
	if !info.IsDir() {
		return Root{}, fmt.Errorf("%w: %s: repository %q is not a directory", snippet.ErrIO, root.Path, alias)
	}
	return root, nil
}

// Roots returns every configured root, sorted by alias.
func (r *Resolver) Roots() []Root {
	roots := make([]Root, 0, len(r.roots))
	for _, root := range r.roots {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return strings.ToLower(roots[i].Alias) < strings.ToLower(roots[j].Alias)
	})
	return roots
}

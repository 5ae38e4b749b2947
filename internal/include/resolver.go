// Package include resolves include directives against the documentation root.
package include

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mvp-joe/docsnip/internal/snippet"
)

// ErrIncludeTargetNotFound indicates the include target does not exist under the docs root
var ErrIncludeTargetNotFound = errors.New("include target not found")

// Resolver looks up include targets. Targets are always relative to the
// documentation root, never to the including document, so the same include
// works from any depth.
type Resolver struct {
	root         string
	pageRelative bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPageRelativeFallback makes targets missing under the root fall back to
// the including document's directory.
func WithPageRelativeFallback() Option {
	return func(r *Resolver) { r.pageRelative = true }
}

// NewResolver creates a resolver rooted at docsRoot.
func NewResolver(docsRoot string, opts ...Option) *Resolver {
	r := &Resolver{root: filepath.Clean(docsRoot)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locate returns the file path target refers to. currentDoc is the including
// document's path; it only matters with the page-relative fallback.
func (r *Resolver) Locate(currentDoc, target string) (string, error) {
	candidates := []string{confine(r.root, target)}
	if r.pageRelative && currentDoc != "" {
		candidates = append(candidates, confine(filepath.Dir(currentDoc), target))
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", snippet.WrapIO(path, err)
		}
		if info.IsDir() {
			continue
		}
		return path, nil
	}

	return "", fmt.Errorf("%w: %q under %s", ErrIncludeTargetNotFound, target, r.root)
}

// Resolve returns the raw contents of target. Include directives inside the
// returned content are not expanded.
func (r *Resolver) Resolve(currentDoc, target string) (string, error) {
	path, err := r.Locate(currentDoc, target)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", snippet.WrapIO(path, err)
	}
	return string(data), nil
}

// confine joins target onto base without letting ".." climb above base.
func confine(base, target string) string {
	rel := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(target))
	return filepath.Join(base, rel)
}

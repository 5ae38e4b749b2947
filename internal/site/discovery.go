package site

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// matcher decides which files under the docs directory are pages.
type matcher struct {
	patterns []string
	globs    []glob.Glob
}

func newMatcher(patterns []string) (*matcher, error) {
	m := &matcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, pattern)
		m.globs = append(m.globs, g)

		// "**/*.md" should also match "index.md" at the docs root
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if g, err := glob.Compile(simplified, '/'); err == nil {
				m.patterns = append(m.patterns, simplified)
				m.globs = append(m.globs, g)
			}
		}
	}
	return m, nil
}

// isPage reports whether relPath (slash separated) is a page.
func (m *matcher) isPage(relPath string) bool {
	for _, g := range m.globs {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// discover splits the files under docsDir into pages and assets, both as
// slash separated paths relative to docsDir in lexical order. Hidden
// directories such as .git are skipped.
func discover(docsDir string, m *matcher) (pages, assets []string, err error) {
	err = filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == docsDir {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if m.isPage(rel) {
			pages = append(pages, rel)
		} else {
			assets = append(assets, rel)
		}
		return nil
	})
	return pages, assets, err
}

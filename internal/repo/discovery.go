package repo

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"

	"github.com/mvp-joe/docsnip/internal/git"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery enumerates candidate files under a repository root,
// honoring configured ignore globs and the repository's .gitignore files.
type FileDiscovery struct {
	rootDir        string
	ignorePatterns []compiledPattern
	gitignore      gitignore.Matcher // nil when .gitignore files are not consulted
	gitPrefix      string            // rootDir relative to the worktree root, slash separated
}

// NewFileDiscovery creates a new file discovery instance.
// gitOps may be nil to skip .gitignore handling. Otherwise .gitignore files
// are read from the enclosing worktree root, so a root that is a
// subdirectory of a repository honors the repository's ignore rules.
func NewFileDiscovery(rootDir string, ignorePatterns []string, gitOps git.Operations) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir: rootDir,
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	if gitOps != nil {
		gitRoot := gitOps.WorktreeRoot(rootDir)
		rel, err := filepath.Rel(gitRoot, rootDir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			gitRoot, rel = rootDir, "."
		}
		m, err := gitOps.IgnoreMatcher(gitRoot)
		if err != nil {
			return nil, err
		}
		fd.gitignore = m
		if rel != "." {
			fd.gitPrefix = filepath.ToSlash(rel)
		}
	}

	return fd, nil
}

// DiscoverFiles walks the directory tree and returns candidate files in
// lexical path order.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == fd.rootDir {
			return nil
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if fd.shouldIgnore(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if fd.shouldIgnore(relPath, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// shouldIgnore checks if a path matches any ignore rule.
func (fd *FileDiscovery) shouldIgnore(relPath string, isDir bool) bool {
	// Always ignore the .git directory
	if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
		return true
	}

	if fd.gitignore != nil && fd.gitignore.Match(git.SplitPath(path.Join(fd.gitPrefix, relPath)), isDir) {
		return true
	}

	if fd.matchesAnyPattern(relPath) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	if isDir {
		return fd.matchesAnyPattern(relPath + "/**")
	}
	return false
}

// matchesAnyPattern checks if a path matches any ignore pattern.
func (fd *FileDiscovery) matchesAnyPattern(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.log" match both "a.log"
	// and "logs/a.log" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range fd.ignorePatterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}

package git

import (
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Operations defines the git queries made against snippet repositories.
// This allows mocking git in tests.
type Operations interface {
	// Revision returns the abbreviated HEAD commit hash.
	// Returns empty string if path is not inside a repository or HEAD is unborn.
	Revision(path string) string

	// WorktreeRoot returns the git worktree root path.
	// Falls back to path if not a git repository.
	WorktreeRoot(path string) string

	// IgnoreMatcher returns a matcher built from every .gitignore file under root.
	// A tree without .gitignore files yields a matcher that ignores nothing.
	IgnoreMatcher(root string) (gitignore.Matcher, error)
}

// gitOps is the real implementation backed by go-git.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func open(path string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
}

func (g *gitOps) Revision(path string) string {
	repo, err := open(path)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	hash := head.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return hash
}

func (g *gitOps) WorktreeRoot(path string) string {
	repo, err := open(path)
	if err != nil {
		return path
	}
	wt, err := repo.Worktree()
	if err != nil {
		return path
	}
	return wt.Filesystem.Root()
}

func (g *gitOps) IgnoreMatcher(root string) (gitignore.Matcher, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	return gitignore.NewMatcher(patterns), nil
}

// SplitPath turns a slash-separated relative path into the segment form
// gitignore matchers expect.
func SplitPath(relPath string) []string {
	return strings.Split(strings.Trim(relPath, "/"), "/")
}

// Package-level variable for dependency injection.
// Tests can replace this with a mock implementation.
var defaultGitOps Operations = NewOperations()

// Default returns the package-level Operations.
func Default() Operations {
	return defaultGitOps
}

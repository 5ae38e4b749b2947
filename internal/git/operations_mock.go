package git

import (
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Rev            string
	Root           string   // worktree root; empty means every path is its own root
	IgnorePatterns []string // gitignore syntax, relative to the matcher root
	IgnoreError    error
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Rev: "abc1234",
	}
}

func (m *MockGitOps) Revision(path string) string {
	return m.Rev
}

func (m *MockGitOps) WorktreeRoot(path string) string {
	if m.Root == "" {
		return path
	}
	return m.Root
}

func (m *MockGitOps) IgnoreMatcher(root string) (gitignore.Matcher, error) {
	if m.IgnoreError != nil {
		return nil, m.IgnoreError
	}
	patterns := make([]gitignore.Pattern, 0, len(m.IgnorePatterns))
	for _, p := range m.IgnorePatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(patterns), nil
}

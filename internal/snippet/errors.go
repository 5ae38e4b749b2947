package snippet

import (
	"errors"
	"fmt"
)

var (
	// ErrSnippetNotFound indicates no start marker exists for the requested name
	ErrSnippetNotFound = errors.New("snippet not found")

	// ErrUnterminatedSnippet indicates a start marker without a matching end,
	// or marker pairs of different names that overlap instead of nesting
	ErrUnterminatedSnippet = errors.New("unterminated snippet")

	// ErrIO indicates a genuine file system failure while searching for snippets
	ErrIO = errors.New("io failure")
)

// WrapIO marks err as an I/O failure while keeping it inspectable with
// errors.Is / errors.As.
func WrapIO(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
}

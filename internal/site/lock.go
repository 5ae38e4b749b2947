package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBuildInProgress indicates another build holds the site directory lock.
var ErrBuildInProgress = errors.New("another build is writing this site directory")

// lockSite takes the exclusive build lock for siteDir. The lock file sits
// next to siteDir so cleaning the site never removes it.
func lockSite(siteDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(siteDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent of site directory: %w", err)
	}

	lock := flock.New(siteDir + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrBuildInProgress, lock.Path())
	}
	return lock, nil
}

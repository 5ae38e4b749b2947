package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyDocsDir indicates a missing docs_dir or site_dir
	ErrEmptyDocsDir = errors.New("empty docs directory")

	// ErrInvalidSiteDir indicates an output directory that would overwrite the sources
	ErrInvalidSiteDir = errors.New("invalid site directory")

	// ErrInvalidSection indicates a dependent section with a bad alias or path
	ErrInvalidSection = errors.New("invalid dependent section")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidFileSize indicates a negative snippet file size limit
	ErrInvalidFileSize = errors.New("invalid file size limit")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateDirs(cfg); err != nil {
		errs = append(errs, err)
	}

	if err := validateSections(cfg.DependentSections); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if cfg.Snippets.MaxFileSizeKB < 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size_kb must be zero or positive, got %d", ErrInvalidFileSize, cfg.Snippets.MaxFileSizeKB))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateDirs(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.DocsDir) == "" {
		errs = append(errs, fmt.Errorf("%w: docs_dir is required", ErrEmptyDocsDir))
	}
	if strings.TrimSpace(cfg.SiteDir) == "" {
		errs = append(errs, fmt.Errorf("%w: site_dir is required", ErrEmptyDocsDir))
	}

	if len(errs) == 0 {
		docs, site := cfg.DocsPath(), cfg.SitePath()
		if docs == site || within(docs, site) {
			errs = append(errs, fmt.Errorf("%w: site_dir %q must not be docs_dir or inside it", ErrInvalidSiteDir, cfg.SiteDir))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSections(sections map[string]string) error {
	var errs []error

	for alias, path := range sections {
		switch {
		case strings.TrimSpace(alias) == "":
			errs = append(errs, fmt.Errorf("%w: alias is empty", ErrInvalidSection))
		case strings.Contains(alias, "/"):
			// excerpt lines split "<alias>/<name>" at the first slash
			errs = append(errs, fmt.Errorf("%w: alias %q must not contain '/'", ErrInvalidSection, alias))
		case strings.TrimSpace(path) == "":
			errs = append(errs, fmt.Errorf("%w: alias %q has no path", ErrInvalidSection, alias))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Docs) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one docs pattern required", ErrInvalidPattern))
	}

	for _, pattern := range append(append([]string{}, cfg.Docs...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// within reports whether path lies inside dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The individual errors stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{
		msg:  fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")),
		errs: errs,
	}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Unwrap() []error {
	return e.errs
}

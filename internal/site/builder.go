// Package site renders a documentation tree into an output directory,
// expanding include and code_snippet directives in every page.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvp-joe/docsnip/internal/config"
	"github.com/mvp-joe/docsnip/internal/git"
	"github.com/mvp-joe/docsnip/internal/include"
	"github.com/mvp-joe/docsnip/internal/page"
	"github.com/mvp-joe/docsnip/internal/repo"
)

// Builder renders the docs directory into the site directory.
type Builder struct {
	cfg       *config.Config
	matcher   *matcher
	progress  ProgressReporter
	logger    *log.Logger
	git       git.Operations
	keepGoing bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(b *Builder) { b.progress = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithGit replaces the git operations used for .gitignore and revisions.
func WithGit(ops git.Operations) Option {
	return func(b *Builder) { b.git = ops }
}

// WithKeepGoing makes Build continue past failing files and return all
// their errors joined.
func WithKeepGoing(keepGoing bool) Option {
	return func(b *Builder) { b.keepGoing = keepGoing }
}

// NewBuilder creates a builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	m, err := newMatcher(cfg.Paths.Docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidPattern, err)
	}

	b := &Builder{
		cfg:      cfg,
		matcher:  m,
		progress: &NoOpProgressReporter{},
		logger:   log.Default(),
		git:      git.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build renders every page and copies every other file. Snippet lookups are
// cached for the duration of the call only, so each build sees the current
// state of the snippet repositories.
func (b *Builder) Build(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	docsDir, siteDir := b.cfg.DocsPath(), b.cfg.SitePath()

	lock, err := lockSite(siteDir)
	if err != nil {
		return stats, err
	}
	defer lock.Unlock()

	pages, assets, err := discover(docsDir, b.matcher)
	if err != nil {
		return stats, fmt.Errorf("failed to scan docs directory: %w", err)
	}
	b.progress.OnDiscoveryComplete(len(pages), len(assets))
	b.logger.Info("building site", "docs", docsDir, "site", siteDir, "pages", len(pages), "assets", len(assets))

	library, err := repo.NewLibrary(
		repo.NewResolver(b.cfg.DependentSections, b.cfg.ProjectDir),
		repo.Options{
			Ignore:           b.cfg.Paths.Ignore,
			RespectGitignore: b.cfg.Snippets.RespectGitignore,
			MaxFileSize:      b.cfg.MaxFileSize(),
			Git:              b.git,
		},
		b.logger,
	)
	if err != nil {
		return stats, err
	}
	defer library.Close()

	var includeOpts []include.Option
	if b.cfg.Include.PageRelative {
		includeOpts = append(includeOpts, include.WithPageRelativeFallback())
	}
	renderer := page.NewRenderer(include.NewResolver(docsDir, includeOpts...), library, b.logger)

	var errs []error
	fail := func(rel string, err error) error {
		stats.Failed++
		if !b.keepGoing {
			return err
		}
		b.logger.Warn("skipping file", "path", rel, "err", err)
		errs = append(errs, err)
		return nil
	}

	for _, rel := range pages {
		if err := ctx.Err(); err != nil {
			return b.finish(stats, start, library), err
		}
		res, err := b.renderPage(renderer, docsDir, siteDir, rel)
		b.progress.OnFileProcessed(rel)
		if err != nil {
			if err := fail(rel, err); err != nil {
				return b.finish(stats, start, library), err
			}
			continue
		}
		stats.Pages++
		stats.Snippets += res.Snippets
		stats.Includes += res.Includes
	}

	for _, rel := range assets {
		if err := ctx.Err(); err != nil {
			return b.finish(stats, start, library), err
		}
		err := copyFile(filepath.Join(docsDir, filepath.FromSlash(rel)), filepath.Join(siteDir, filepath.FromSlash(rel)))
		b.progress.OnFileProcessed(rel)
		if err != nil {
			if err := fail(rel, err); err != nil {
				return b.finish(stats, start, library), err
			}
			continue
		}
		stats.Assets++
	}

	b.finish(stats, start, library)
	b.logger.Info("site built", "pages", stats.Pages, "assets", stats.Assets, "snippets", stats.Snippets,
		"failed", stats.Failed, "took", stats.Duration.Round(time.Millisecond))

	return stats, errors.Join(errs...)
}

func (b *Builder) finish(stats *Stats, start time.Time, library *repo.Library) *Stats {
	stats.CacheHits, stats.CacheMisses = library.CacheStats()
	stats.Duration = time.Since(start)
	b.progress.OnComplete(stats)
	return stats
}

func (b *Builder) renderPage(renderer *page.Renderer, docsDir, siteDir, rel string) (page.Result, error) {
	src := filepath.Join(docsDir, filepath.FromSlash(rel))
	content, err := os.ReadFile(src)
	if err != nil {
		return page.Result{}, fmt.Errorf("failed to read %s: %w", src, err)
	}

	res, err := renderer.Render(src, string(content))
	if err != nil {
		return page.Result{}, err
	}

	dst := filepath.Join(siteDir, filepath.FromSlash(rel))
	if err := writeFile(dst, []byte(res.Content)); err != nil {
		return page.Result{}, err
	}
	return res, nil
}

func writeFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docsnip/internal/config"
	"github.com/mvp-joe/docsnip/internal/repo"
	"github.com/mvp-joe/docsnip/internal/site"
	"github.com/mvp-joe/docsnip/internal/watcher"
)

var (
	watchFlag     bool
	keepGoingFlag bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the docs directory into the site directory",
	Long: `Build renders every page matched by paths.docs under docs_dir into the same
relative path under site_dir, expanding include and code_snippet directives.
Every other file is copied unchanged.

Examples:
  # Build the site for the current directory
  docsnip build

  # Keep building past broken pages and report them all at the end
  docsnip build --keep-going

  # Rebuild whenever a page or a snippet repository changes
  docsnip build --watch
`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch docs and snippet repositories and rebuild on change")
	buildCmd.Flags().BoolVarP(&keepGoingFlag, "keep-going", "k", false, "Continue past failing pages and report all errors")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Warn("interrupted, stopping build")
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return executeBuild(ctx, cfg, buildOptions{
		watch:     watchFlag,
		keepGoing: keepGoingFlag,
		progress:  NewCLIProgressReporter(quietFlag),
	})
}

type buildOptions struct {
	watch     bool
	keepGoing bool
	progress  site.ProgressReporter
	siteOpts  []site.Option // extra options, used by tests
}

func executeBuild(ctx context.Context, cfg *config.Config, opts buildOptions) error {
	if opts.progress == nil {
		opts.progress = &site.NoOpProgressReporter{}
	}
	siteOpts := append([]site.Option{
		site.WithLogger(logger),
		site.WithKeepGoing(opts.keepGoing),
		site.WithProgress(opts.progress),
	}, opts.siteOpts...)

	builder, err := site.NewBuilder(cfg, siteOpts...)
	if err != nil {
		return err
	}

	_, err = builder.Build(ctx)
	if !opts.watch {
		if err != nil && ctx.Err() != nil {
			return fmt.Errorf("build cancelled")
		}
		return err
	}

	// In watch mode a broken page should not end the session
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.Error("initial build failed", "err", err)
	}

	return watch(ctx, cfg, append(siteOpts, site.WithProgress(&site.NoOpProgressReporter{})))
}

// watch rebuilds on changes to the docs directory or any snippet repository.
// Blocks until ctx is cancelled.
func watch(ctx context.Context, cfg *config.Config, siteOpts []site.Option) error {
	builder, err := site.NewBuilder(cfg, siteOpts...)
	if err != nil {
		return err
	}

	dirs := []string{cfg.DocsPath()}
	for _, root := range repo.NewResolver(cfg.DependentSections, cfg.ProjectDir).Roots() {
		if info, err := os.Stat(root.Path); err != nil || !info.IsDir() {
			logger.Warn("not watching missing repository", "alias", root.Alias, "path", root.Path)
			continue
		}
		dirs = append(dirs, root.Path)
	}

	files, err := watcher.NewFileWatcher(dirs,
		watcher.WithExclude(cfg.SitePath()),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	logger.Info("watching for changes", "dirs", len(dirs))
	coordinator := watcher.NewWatchCoordinator(files, siteBuilder{builder}, logger)
	if err := coordinator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	logger.Info("watch mode stopped")
	return nil
}

// siteBuilder adapts site.Builder to watcher.Builder.
type siteBuilder struct {
	b *site.Builder
}

func (s siteBuilder) Build(ctx context.Context) error {
	_, err := s.b.Build(ctx)
	return err
}

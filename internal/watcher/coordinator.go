package watcher

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// WatchCoordinator rebuilds the site whenever the file watcher reports changes.
type WatchCoordinator struct {
	files   FileWatcher
	builder Builder
	logger  *log.Logger
	ctx     context.Context
}

// NewWatchCoordinator creates a new watch coordinator.
func NewWatchCoordinator(files FileWatcher, builder Builder, logger *log.Logger) *WatchCoordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &WatchCoordinator{
		files:   files,
		builder: builder,
		logger:  logger,
	}
}

// Start begins routing file changes to the builder.
// Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	c.ctx = ctx

	if err := c.files.Start(ctx, c.handleFileChange); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

// cleanup stops the file watcher.
func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		c.logger.Warn("file watcher stop failed", "err", err)
	}
}

// handleFileChange rebuilds once per debounced batch. Changes made while the
// build runs are held back and delivered as the next batch.
func (c *WatchCoordinator) handleFileChange(files []string) {
	if len(files) == 0 || c.ctx.Err() != nil {
		return
	}

	c.files.Pause()
	defer c.files.Resume()

	c.logger.Info("change detected, rebuilding", "files", len(files))
	c.logger.Debug("changed files", "files", files)

	start := time.Now()
	if err := c.builder.Build(c.ctx); err != nil {
		c.logger.Error("rebuild failed", "err", err)
		return
	}
	c.logger.Info("rebuilt", "took", time.Since(start).Round(time.Millisecond))
}

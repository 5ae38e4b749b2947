package site

import "time"

// ProgressReporter provides callbacks for reporting build progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once the docs directory has been scanned.
	OnDiscoveryComplete(pages, assets int)

	// OnFileProcessed is called after each page is rendered or asset copied,
	// whether or not it succeeded.
	OnFileProcessed(relPath string)

	// OnComplete is called when the build finishes, including failed builds.
	OnComplete(stats *Stats)
}

// Stats summarizes one build.
type Stats struct {
	Pages       int // pages rendered
	Assets      int // files copied verbatim
	Failed      int // files that failed (keep-going only)
	Snippets    int
	Includes    int
	CacheHits   int64
	CacheMisses int64
	Duration    time.Duration
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(pages, assets int) {}
func (n *NoOpProgressReporter) OnFileProcessed(relPath string)        {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)               {}

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/docsnip/internal/site"
)

// CLIProgressReporter implements site.ProgressReporter with a progress bar.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   os.Stdout,
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(pages, assets int) {
	if c.quiet {
		return
	}

	c.fileBar = progressbar.NewOptions(pages+assets,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Building site"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(relPath string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *site.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Site built: %s pages in %.1fs\n", formatNumber(stats.Pages), stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Snippets: %s\n", formatNumber(stats.Snippets))
	fmt.Fprintf(c.out, "  Includes: %s\n", formatNumber(stats.Includes))
	fmt.Fprintf(c.out, "  Copied:   %s\n", formatNumber(stats.Assets))
	if stats.Failed > 0 {
		fmt.Fprintf(c.out, "  Failed:   %s\n", formatNumber(stats.Failed))
	}
}

// formatNumber adds thousands separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

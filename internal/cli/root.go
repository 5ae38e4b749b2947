package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/docsnip/internal/config"
)

var (
	cfgFile    string
	projectDir string
	verbose    bool
	quietFlag  bool

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "docsnip"})
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsnip",
	Short: "Docsnip - render documentation with code snippets pulled from source",
	Long: `Docsnip renders a documentation tree, replacing code_snippet and include
directives with code extracted from marked regions of other repositories.

A region is marked in any source file with a pair of comment lines:

  // code_snippet <name> start [lang]
  ...
  // code_snippet <name> end

and referenced from a page with {% code_snippet '<repo>', '<name>' %}.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <dir>/docsnip.yml)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "", "project directory (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
}

func configureLogger() {
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quietFlag:
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads docsnip.yml for the selected project directory.
func loadConfig() (*config.Config, error) {
	dir := projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.NewLoader(dir, cfgFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("loaded configuration", "project", cfg.ProjectDir, "docs", cfg.DocsPath(), "site", cfg.SitePath(),
		"sections", len(cfg.DependentSections))
	return cfg, nil
}

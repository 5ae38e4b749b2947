package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/docsnip/internal/config"
	"github.com/mvp-joe/docsnip/internal/git"
	"github.com/mvp-joe/docsnip/internal/page"
	"github.com/mvp-joe/docsnip/internal/repo"
	"github.com/mvp-joe/docsnip/internal/snippet"
	"github.com/mvp-joe/docsnip/internal/tabs"
)

var (
	prettyFlag bool
	widthFlag  int
)

// snippetCmd represents the snippet command
var snippetCmd = &cobra.Command{
	Use:   "snippet <repo> <name>",
	Short: "Print one extracted snippet",
	Long: `Snippet looks up a named region in a dependent section and prints its
dedented content, exactly as a code_snippet directive would embed it.

Examples:
  # Print the raw snippet
  docsnip snippet agent install

  # Render it as highlighted markdown
  docsnip snippet agent install --pretty
`,
	Args: cobra.ExactArgs(2),
	RunE: runSnippet,
}

func init() {
	rootCmd.AddCommand(snippetCmd)
	snippetCmd.Flags().BoolVarP(&prettyFlag, "pretty", "p", false, "Render the snippet as highlighted markdown")
	snippetCmd.Flags().IntVar(&widthFlag, "width", 100, "Word wrap width for --pretty")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return executeSnippet(cmd.OutOrStdout(), cfg, git.Default(), snippet.Request{RepoAlias: args[0], Name: args[1]}, prettyFlag)
}

func executeSnippet(w io.Writer, cfg *config.Config, gitOps git.Operations, req snippet.Request, pretty bool) error {
	library, err := repo.NewLibrary(
		repo.NewResolver(cfg.DependentSections, cfg.ProjectDir),
		repo.Options{
			Ignore:           cfg.Paths.Ignore,
			RespectGitignore: cfg.Snippets.RespectGitignore,
			MaxFileSize:      cfg.MaxFileSize(),
			Git:              gitOps,
		},
		logger,
	)
	if err != nil {
		return err
	}
	defer library.Close()

	block, err := library.Snippet(req)
	if err != nil {
		return err
	}
	logger.Debug("found snippet", "name", block.Name, "source", block.Source, "start", block.StartLine, "end", block.EndLine)

	if !pretty {
		_, err := io.WriteString(w, block.Content())
		return err
	}

	markdown := page.FormatUnit(tabs.Unit{Tabs: []tabs.Tab{{Block: block}}})
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(widthFlag),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(strings.TrimSpace(markdown))
	if err != nil {
		return fmt.Errorf("failed to render snippet: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

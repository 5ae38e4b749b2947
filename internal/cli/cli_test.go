package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docsnip/internal/config"
	"github.com/mvp-joe/docsnip/internal/git"
	"github.com/mvp-joe/docsnip/internal/site"
	"github.com/mvp-joe/docsnip/internal/snippet"
)

// Test Plan for CLI commands:
// - executeBuild renders the site from a loaded docsnip.yml
// - The example project renders tab groups, includes, nested markers and excerpts
// - executeBuild returns snippet errors; keep-going still writes good pages
// - executeBuild in watch mode rebuilds after a snippet repository changes and stops on cancel
// - executeSnippet prints the dedented snippet; --pretty renders it through glamour
// - executeSnippet reports unknown repositories and snippets
// - version prints the version string
// - formatNumber inserts thousands separators

func setupProject(t *testing.T) *config.Config {
	t.Helper()
	project := t.TempDir()

	files := map[string]string{
		"docsnip.yml":          "dependent_sections:\n  agent: ./agent\n",
		"agent/config/app.yml": "root:\n  # code_snippet app-config start yaml\n  server:\n    port: 8080\n  # code_snippet app-config end\n",
		"docs/index.md":        "Config:\n{% code_snippet 'agent', 'app-config' %}\n",
	}
	for rel, content := range files {
		path := filepath.Join(project, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg, err := config.NewLoader(project, "").Load()
	require.NoError(t, err)
	return cfg
}

func testBuildOptions() buildOptions {
	return buildOptions{siteOpts: []site.Option{site.WithGit(git.NewMockGitOps())}}
}

func readSite(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.SitePath(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestExecuteBuild(t *testing.T) {
	t.Parallel()

	cfg := setupProject(t)
	require.NoError(t, executeBuild(context.Background(), cfg, testBuildOptions()))

	assert.Equal(t, "Config:\n\n\n```yaml\nserver:\n  port: 8080\n```\n\n\n", readSite(t, cfg, "index.md"))
}

func TestExecuteBuild_ExampleProject(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	require.NoError(t, os.CopyFS(project, os.DirFS(filepath.Join("..", "..", "testdata", "project"))))

	cfg, err := config.NewLoader(project, "").Load()
	require.NoError(t, err)
	require.NoError(t, executeBuild(context.Background(), cfg, testBuildOptions()))

	wantIndex := "# Agent\n\n\nInstall the agent:\n\n" +
		"\n\n```sh tab=\"CLI\"\n# brew install agent\n```\n\n```go tab=\"Go\"\n// go install example.com/agent@latest\n```\n\n" +
		"\n\n\nThen configure it:\n\n" +
		"\n\n```yaml\nserver:\n  port: 8080\n```\n\n" +
		"\n"
	assert.Equal(t, wantIndex, readSite(t, cfg, "index.md"))

	wantSteps := "1. Start the agent:\n\n" +
		"    ```go\n    run()\n    ```" +
		"\n\n2. Done.\n"
	assert.Equal(t, wantSteps, readSite(t, cfg, "guide/steps.md"))
}

func TestExecuteBuild_Errors(t *testing.T) {
	t.Parallel()

	cfg := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocsPath(), "broken.md"),
		[]byte("{% code_snippet 'agent', 'nope' %}"), 0644))

	err := executeBuild(context.Background(), cfg, testBuildOptions())
	require.ErrorIs(t, err, snippet.ErrSnippetNotFound)
	assert.Contains(t, err.Error(), `could not find code snippet "nope" under repo "agent"`)

	opts := testBuildOptions()
	opts.keepGoing = true
	err = executeBuild(context.Background(), cfg, opts)
	require.ErrorIs(t, err, snippet.ErrSnippetNotFound)
	assert.Contains(t, readSite(t, cfg, "index.md"), "port: 8080")
}

func TestExecuteBuild_Watch(t *testing.T) {
	t.Parallel()

	cfg := setupProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := testBuildOptions()
	opts.watch = true
	done := make(chan error, 1)
	go func() { done <- executeBuild(ctx, cfg, opts) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(cfg.SitePath(), "index.md"))
		return err == nil && strings.Contains(string(data), "port: 8080")
	}, 5*time.Second, 50*time.Millisecond)

	// Give the watcher time to register directories
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ProjectDir, "agent", "config", "app.yml"),
		[]byte("# code_snippet app-config start yaml\nport: 9090\n# code_snippet app-config end\n"), 0644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(cfg.SitePath(), "index.md"))
		return err == nil && strings.Contains(string(data), "port: 9090")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop")
	}
}

func TestExecuteSnippet(t *testing.T) {
	t.Parallel()

	cfg := setupProject(t)
	req := snippet.Request{RepoAlias: "agent", Name: "app-config"}

	var out bytes.Buffer
	require.NoError(t, executeSnippet(&out, cfg, git.NewMockGitOps(), req, false))
	assert.Equal(t, "server:\n  port: 8080\n", out.String())

	out.Reset()
	require.NoError(t, executeSnippet(&out, cfg, git.NewMockGitOps(), req, true))
	assert.Contains(t, out.String(), "8080")

	err := executeSnippet(&out, cfg, git.NewMockGitOps(), snippet.Request{RepoAlias: "agent", Name: "missing"}, false)
	assert.ErrorIs(t, err, snippet.ErrSnippetNotFound)

	err = executeSnippet(&out, cfg, git.NewMockGitOps(), snippet.Request{RepoAlias: "other", Name: "x"}, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `dependent section "other" not defined`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "docsnip "+Version)
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-12,345", formatNumber(-12345))
}

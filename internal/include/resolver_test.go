package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for include Resolver:
// - Targets resolve from the docs root regardless of the including document's depth
// - A target existing only next to the including document is not found by default
// - The page-relative fallback finds it, and the root still takes precedence
// - ".." cannot escape the docs root
// - Directories are not valid targets
// - Missing targets return ErrIncludeTargetNotFound
// - Resolve does not expand nested include directives

func setupDocs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"header1.md":        "appears",
		"testing/header.md": "appears again",
		"testing/test.md":   "a header: {% include 'header.md' %}",
		"partials/outer.md": "{% include 'partials/inner.md' %}",
		"header.md":         "root header",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestResolve_RootRelative(t *testing.T) {
	t.Parallel()

	root := setupDocs(t)
	r := NewResolver(root)

	got, err := r.Resolve(filepath.Join(root, "test.md"), "header1.md")
	require.NoError(t, err)
	assert.Equal(t, "appears", got)

	got, err = r.Resolve(filepath.Join(root, "testing", "deep", "page.md"), "header1.md")
	require.NoError(t, err)
	assert.Equal(t, "appears", got)

	// header.md exists at the root and next to testing/test.md; the root wins.
	got, err = r.Resolve(filepath.Join(root, "testing", "test.md"), "header.md")
	require.NoError(t, err)
	assert.Equal(t, "root header", got)
}

func TestResolve_NotCallerRelative(t *testing.T) {
	t.Parallel()

	root := setupDocs(t)
	require.NoError(t, os.Remove(filepath.Join(root, "header.md")))

	r := NewResolver(root)
	_, err := r.Resolve(filepath.Join(root, "testing", "test.md"), "header.md")
	assert.ErrorIs(t, err, ErrIncludeTargetNotFound)

	fallback := NewResolver(root, WithPageRelativeFallback())
	got, err := fallback.Resolve(filepath.Join(root, "testing", "test.md"), "header.md")
	require.NoError(t, err)
	assert.Equal(t, "appears again", got)
}

func TestResolve_Confined(t *testing.T) {
	t.Parallel()

	root := setupDocs(t)
	outside := filepath.Join(filepath.Dir(root), "secret.md")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644))
	t.Cleanup(func() { os.Remove(outside) })

	r := NewResolver(root)
	_, err := r.Resolve("", "../"+filepath.Base(outside))
	assert.ErrorIs(t, err, ErrIncludeTargetNotFound)

	path, err := r.Locate("", "/testing/../header1.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "header1.md"), path)
}

func TestResolve_DirectoryAndMissing(t *testing.T) {
	t.Parallel()

	root := setupDocs(t)
	r := NewResolver(root)

	_, err := r.Resolve("", "testing")
	assert.ErrorIs(t, err, ErrIncludeTargetNotFound)

	_, err = r.Resolve("", "nope.md")
	assert.ErrorIs(t, err, ErrIncludeTargetNotFound)
	assert.Contains(t, err.Error(), `"nope.md"`)
}

func TestResolve_NoRecursion(t *testing.T) {
	t.Parallel()

	root := setupDocs(t)
	got, err := NewResolver(root).Resolve("", "partials/outer.md")
	require.NoError(t, err)
	assert.Equal(t, "{% include 'partials/inner.md' %}", got)
}

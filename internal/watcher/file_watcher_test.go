package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher creates watcher successfully with valid directories
// - NewFileWatcher returns error with invalid directory
// - Single file change fires callback after debounce
// - Rapid changes to several files are coalesced into one deduplicated batch
// - Pause/Resume behavior (accumulate during pause, fire on resume)
// - File deleted triggers callback
// - Directory added triggers recursive watch
// - Without extensions every file counts; with extensions only those do
// - Hidden and excluded directories are not watched
// - Stop() is idempotent and safe to call concurrently, even before Start()
// - Context cancellation stops watcher

const testDebounce = 100 * time.Millisecond

// collector records callback batches.
type collector struct {
	mu      sync.Mutex
	batches [][]string
	called  chan struct{}
}

func newCollector() *collector {
	return &collector{called: make(chan struct{}, 16)}
}

func (c *collector) callback(files []string) {
	c.mu.Lock()
	c.batches = append(c.batches, files)
	c.mu.Unlock()
	c.called <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.called:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
}

func (c *collector) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-c.called:
		t.Fatal("Callback called unexpectedly")
	case <-time.After(d):
	}
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var files []string
	for _, b := range c.batches {
		files = append(files, b...)
	}
	return files
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func startWatcher(t *testing.T, dir string, opts ...Option) (FileWatcher, *collector) {
	t.Helper()
	opts = append([]Option{WithDebounce(testDebounce)}, opts...)
	w, err := NewFileWatcher([]string{dir}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	// Wait for watcher to initialize
	time.Sleep(50 * time.Millisecond)
	return w, c
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	watcher, err := NewFileWatcher([]string{t.TempDir()}, WithExtensions(".md", ".go"))
	require.NoError(t, err)
	require.NotNil(t, watcher)
	require.NoError(t, watcher.Stop())
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	watcher, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "nonexistent")})
	assert.Error(t, err)
	assert.Nil(t, watcher)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	_, c := startWatcher(t, tempDir)

	testFile := filepath.Join(tempDir, "index.md")
	require.NoError(t, os.WriteFile(testFile, []byte("# Title"), 0644))

	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_CoalescesAndDeduplicates(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	_, c := startWatcher(t, tempDir)

	a := filepath.Join(tempDir, "a.md")
	b := filepath.Join(tempDir, "b.md")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(a, []byte{byte('0' + i)}, 0644))
		require.NoError(t, os.WriteFile(b, []byte{byte('0' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	c.wait(t)
	c.expectNone(t, 3*testDebounce)

	assert.Equal(t, 1, c.count())
	assert.ElementsMatch(t, []string{a, b}, c.all())
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	w, c := startWatcher(t, tempDir)

	w.Pause()
	testFile := filepath.Join(tempDir, "paused.md")
	require.NoError(t, os.WriteFile(testFile, []byte("x"), 0644))

	c.expectNone(t, 3*testDebounce)
	assert.Equal(t, 0, c.count(), "No callbacks should fire while paused")

	// Resume fires synchronously with the accumulated events
	w.Resume()
	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "gone.md")
	require.NoError(t, os.WriteFile(testFile, []byte("x"), 0644))

	_, c := startWatcher(t, tempDir)
	require.NoError(t, os.Remove(testFile))

	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_DirectoryAdded(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	_, c := startWatcher(t, tempDir)

	newDir := filepath.Join(tempDir, "guide")
	require.NoError(t, os.Mkdir(newDir, 0755))

	// Give the watcher time to add the new directory
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(newDir, "setup.md")
	require.NoError(t, os.WriteFile(testFile, []byte("x"), 0644))

	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_ExtensionFiltering(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	_, c := startWatcher(t, tempDir, WithExtensions(".md"))

	ignored := filepath.Join(tempDir, "notes.txt")
	watched := filepath.Join(tempDir, "index.md")
	require.NoError(t, os.WriteFile(ignored, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("x"), 0644))

	c.wait(t)
	files := c.all()
	assert.Contains(t, files, watched)
	assert.NotContains(t, files, ignored)
}

func TestFileWatcher_HiddenAndExcludedDirectories(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	gitDir := filepath.Join(tempDir, ".git")
	siteDir := filepath.Join(tempDir, "site")
	require.NoError(t, os.Mkdir(gitDir, 0755))
	require.NoError(t, os.Mkdir(siteDir, 0755))

	_, c := startWatcher(t, tempDir, WithExclude(siteDir))

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "index.md"), []byte("x"), 0644))
	c.expectNone(t, 3*testDebounce)

	testFile := filepath.Join(tempDir, "main.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package main"), 0644))
	c.wait(t)
	assert.Equal(t, []string{testFile}, c.all())
}

func TestFileWatcher_StopBeforeStartAndConcurrent(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	w, err = NewFileWatcher([]string{t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	w, err := NewFileWatcher([]string{tempDir}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer w.Stop()

	c := newCollector()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, c.callback))

	cancel()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "late.md"), []byte("x"), 0644))
	c.expectNone(t, 3*testDebounce)
}

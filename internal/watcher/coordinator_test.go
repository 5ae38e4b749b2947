package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for WatchCoordinator:
// - File change triggers one Build, wrapped in Pause/Resume
// - Empty batches do not build
// - Build errors are logged and watching continues
// - File watcher Start error is returned and the watcher stopped
// - Context cancellation stops the watcher and returns the context error

type mockFileWatcher struct {
	mu          sync.Mutex
	startErr    error
	callback    func(files []string)
	calls       []string
	stopCalled  bool
	startedOnce chan struct{}
}

func newMockFileWatcher() *mockFileWatcher {
	return &mockFileWatcher{startedOnce: make(chan struct{})}
}

func (m *mockFileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.callback = callback
	close(m.startedOnce)
	return nil
}

func (m *mockFileWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockFileWatcher) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
}

func (m *mockFileWatcher) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "resume")
}

func (m *mockFileWatcher) trigger(files []string) {
	m.mu.Lock()
	cb := m.callback
	m.mu.Unlock()
	cb(files)
}

func (m *mockFileWatcher) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockFileWatcher) snapshot() ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...), m.stopCalled
}

type mockBuilder struct {
	files *mockFileWatcher
	err   error
}

func (b *mockBuilder) Build(ctx context.Context) error {
	b.files.record("build")
	return b.err
}

func startCoordinator(t *testing.T, files *mockFileWatcher, builder Builder) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	c := NewWatchCoordinator(files, builder, nil)
	go func() { done <- c.Start(ctx) }()

	select {
	case <-files.startedOnce:
	case <-time.After(time.Second):
		t.Fatal("file watcher not started")
	}
	return cancel, done
}

func TestCoordinator_FileChangeBuilds(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	cancel, done := startCoordinator(t, files, &mockBuilder{files: files})

	files.trigger(nil)
	files.trigger([]string{"docs/index.md"})

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	calls, stopped := files.snapshot()
	assert.Equal(t, []string{"pause", "build", "resume"}, calls)
	assert.True(t, stopped)
}

func TestCoordinator_BuildErrorContinues(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	cancel, done := startCoordinator(t, files, &mockBuilder{files: files, err: errors.New("boom")})

	files.trigger([]string{"a.md"})
	files.trigger([]string{"b.md"})

	cancel()
	<-done

	calls, _ := files.snapshot()
	assert.Equal(t, []string{"pause", "build", "resume", "pause", "build", "resume"}, calls)
}

func TestCoordinator_StartError(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	files.startErr = errors.New("cannot watch")

	c := NewWatchCoordinator(files, &mockBuilder{files: files}, nil)
	err := c.Start(context.Background())
	assert.EqualError(t, err, "cannot watch")

	_, stopped := files.snapshot()
	assert.True(t, stopped)
}

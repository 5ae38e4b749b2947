package repo

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mvp-joe/docsnip/internal/git"
	"github.com/mvp-joe/docsnip/internal/snippet"
)

// Options controls how repositories are searched.
type Options struct {
	Ignore           []string       // glob patterns, relative to each repository root
	RespectGitignore bool           // skip files matched by the repository's .gitignore files
	MaxFileSize      int64          // bytes; zero means no limit
	CacheLines       int            // file cache bound; zero uses DefaultCacheLines
	Git              git.Operations // nil uses git.Default()
}

// Library answers snippet requests for one build. It owns a file cache and
// one Finder per repository, both dropped by Close.
type Library struct {
	resolver *Resolver
	opts     Options
	cache    *FileCache
	logger   *log.Logger

	mu      sync.Mutex
	finders map[string]*Finder
}

// NewLibrary creates a library over resolver's repositories.
func NewLibrary(resolver *Resolver, opts Options, logger *log.Logger) (*Library, error) {
	if opts.Git == nil {
		opts.Git = git.Default()
	}
	if logger == nil {
		logger = log.Default()
	}

	cache, err := NewFileCache(opts.CacheLines, opts.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}

	return &Library{
		resolver: resolver,
		opts:     opts,
		cache:    cache,
		logger:   logger,
		finders:  make(map[string]*Finder),
	}, nil
}

// Snippet resolves req's repository alias and extracts the named snippet.
func (l *Library) Snippet(req snippet.Request) (snippet.Block, error) {
	finder, err := l.finder(req.RepoAlias)
	if err != nil {
		return snippet.Block{}, err
	}
	return finder.Find(req.Name)
}

func (l *Library) finder(alias string) (*Finder, error) {
	root, err := l.resolver.Resolve(alias)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.finders[root.Path]; ok {
		return f, nil
	}

	var gitOps git.Operations
	if l.opts.RespectGitignore {
		gitOps = l.opts.Git
	}
	discovery, err := NewFileDiscovery(root.Path, l.opts.Ignore, gitOps)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare repository %q: %w", alias, err)
	}

	l.logger.Debug("searching repository", "alias", root.Alias, "path", root.Path, "revision", l.opts.Git.Revision(root.Path))

	f := NewFinder(root, discovery, l.cache)
	l.finders[root.Path] = f
	return f, nil
}

// CacheStats reports file cache hits and misses.
func (l *Library) CacheStats() (hits, misses int64) {
	return l.cache.Stats()
}

// Close releases the file cache.
func (l *Library) Close() {
	l.cache.Close()
}

package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Package storage provides the local key-value layer: reader settings and the
// set of articles that already triggered a notification.

// Store persists settings and announced article URLs.
type Store interface {
	Close() error
	SeenArticle(url string) (bool, error)
	MarkArticle(url string) error
	Bool(key string, def bool) (bool, error)
	SetBool(key string, value bool) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultArticleTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "memory", "none":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// memoryStore keeps everything for the lifetime of the process.
type memoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	articles map[string]time.Time
	bools    map[string]bool
	now      func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		ttl:      opts.ArticleTTL,
		articles: make(map[string]time.Time),
		bools:    make(map[string]bool),
		now:      time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SeenArticle(url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.articles[url]
	if !ok {
		return false, nil
	}
	if !expiry.After(m.now()) {
		delete(m.articles, url)
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) MarkArticle(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[url] = m.now().Add(m.ttl)
	return nil
}

func (m *memoryStore) Bool(key string, def bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.bools[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *memoryStore) SetBool(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bools[key] = value
	return nil
}

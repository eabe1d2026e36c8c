package favorites

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/observe"
)

// Identity decides whether two articles are the same favorite.
type Identity func(a, b domain.Article) bool

var (
	// ByContent compares title, description, url and image; category is ignored.
	ByContent Identity = domain.Article.SameContent
	// ByURL compares the canonical url only.
	ByURL Identity = domain.Article.SameURL
)

// IdentityFor maps a config value ("content" or "url") to an Identity.
func IdentityFor(name string) (Identity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "content":
		return ByContent, nil
	case "url":
		return ByURL, nil
	default:
		return nil, fmt.Errorf("unknown favorites identity %q", name)
	}
}

// Set is an ordered, deduplicated collection of saved articles.
type Set struct {
	same Identity

	mu    sync.RWMutex
	items []domain.Article
	subs  observe.Broadcaster[[]domain.Article]
}

// Option customizes a Set.
type Option func(*Set)

// WithIdentity sets the equality used for deduplication.
func WithIdentity(id Identity) Option {
	return func(s *Set) {
		if id != nil {
			s.same = id
		}
	}
}

// New returns an empty favorites set.
func New(opts ...Option) *Set {
	s := &Set{same: ByContent}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a unless an equal article is already present.
// It reports whether the set changed.
func (s *Set) Add(a domain.Article) bool {
	s.mu.Lock()
	if s.indexLocked(a) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items, a)
	s.subs.Publish(s.snapshotLocked())
	s.mu.Unlock()
	return true
}

// Remove drops every article equal to a. It reports whether the set changed.
func (s *Set) Remove(a domain.Article) bool {
	s.mu.Lock()
	kept := make([]domain.Article, 0, len(s.items))
	for _, it := range s.items {
		if !s.same(it, a) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		s.mu.Unlock()
		return false
	}
	s.items = kept
	s.subs.Publish(s.snapshotLocked())
	s.mu.Unlock()
	return true
}

// Toggle adds a when absent and removes it otherwise. It returns whether a is
// a favorite afterwards.
func (s *Set) Toggle(a domain.Article) bool {
	if s.Remove(a) {
		return false
	}
	s.Add(a)
	return true
}

func (s *Set) Contains(a domain.Article) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(a) >= 0
}

// List returns a snapshot in insertion order.
func (s *Set) List() []domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe delivers the list after every change.
func (s *Set) Subscribe() (<-chan []domain.Article, func()) {
	return s.subs.Subscribe()
}

func (s *Set) indexLocked(a domain.Article) int {
	for i, it := range s.items {
		if s.same(it, a) {
			return i
		}
	}
	return -1
}

func (s *Set) snapshotLocked() []domain.Article {
	return append([]domain.Article{}, s.items...)
}

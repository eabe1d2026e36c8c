package catalog

import (
	"context"
	"sync"

	"github.com/samvad-hq/samvad-news-reader/internal/classify"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/internal/observe"
)

// Source retrieves the raw article list from the news API.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]domain.Article, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]domain.Article, error) { return f(ctx) }

// State is an immutable snapshot of the catalog.
type State struct {
	Articles  []domain.Article `json:"articles"`
	IsLoading bool             `json:"is_loading"`
	IsError   bool             `json:"is_error"`
}

// Catalog owns the fetched article list and its loading/error flags.
type Catalog struct {
	source   Source
	classify func(domain.Article) domain.Article
	log      logger.Logger

	mu    sync.RWMutex
	state State
	subs  observe.Broadcaster[State]
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used to report fetch failures.
func WithLogger(log logger.Logger) Option {
	return func(c *Catalog) { c.log = logger.Ensure(log) }
}

// WithClassifier replaces the keyword classifier.
func WithClassifier(fn func(domain.Article) domain.Article) Option {
	return func(c *Catalog) {
		if fn != nil {
			c.classify = fn
		}
	}
}

// New builds an empty catalog backed by source.
func New(source Source, opts ...Option) *Catalog {
	c := &Catalog{
		source:   source,
		classify: classify.Article,
		log:      logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads articles from the source and classifies them. Any failure is
// folded into the IsError flag; the previous article list is kept. The
// loading flag is cleared on every exit path. Overlapping calls are not
// serialized: the last one to finish wins.
func (c *Catalog) Fetch(ctx context.Context) {
	c.update(func(s *State) {
		s.IsLoading = true
		s.IsError = false
	})
	defer c.update(func(s *State) { s.IsLoading = false })

	if c.source == nil {
		c.log.ErrorObj("news fetch failed", "fetch_error", map[string]any{
			"error": "catalog has no source",
		})
		c.update(func(s *State) { s.IsError = true })
		return
	}

	raw, err := c.source.Fetch(ctx)
	if err != nil {
		c.log.ErrorObj("news fetch failed", "fetch_error", map[string]any{
			"error": err.Error(),
		})
		c.update(func(s *State) { s.IsError = true })
		return
	}

	articles := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, c.classify(a))
	}
	c.update(func(s *State) { s.Articles = articles })

	c.log.InfoObj("news fetch completed", "fetch_result", map[string]any{
		"articles_count": len(articles),
	})
}

// Snapshot returns a copy of the current state.
func (c *Catalog) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Articles returns the current article list in server order.
func (c *Catalog) Articles() []domain.Article {
	return c.Snapshot().Articles
}

func (c *Catalog) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsLoading
}

func (c *Catalog) IsError() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsError
}

// View returns the current articles filtered by category then search query.
func (c *Catalog) View(category, query string) []domain.Article {
	return Filter(c.Articles(), category, query)
}

// Subscribe delivers every state change. Call cancel to stop receiving.
func (c *Catalog) Subscribe() (<-chan State, func()) {
	return c.subs.Subscribe()
}

// update mutates the state and publishes the result under the same lock so
// subscribers observe states in mutation order. Publish never blocks.
func (c *Catalog) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	c.subs.Publish(c.state.clone())
}

func (s State) clone() State {
	out := s
	if s.Articles != nil {
		out.Articles = append([]domain.Article(nil), s.Articles...)
	}
	return out
}

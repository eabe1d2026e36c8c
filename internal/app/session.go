package app

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-news-reader/internal/catalog"
	"github.com/samvad-hq/samvad-news-reader/internal/classify"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/favorites"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/internal/navigation"
	"github.com/samvad-hq/samvad-news-reader/internal/settings"
)

// Session is the state a reader UI binds to: the fetched catalog, the
// favorites set and the persisted preferences. It lives for the process.
type Session struct {
	Catalog   *catalog.Catalog
	Favorites *favorites.Set
	Settings  *settings.Settings
}

// NewSession wires the state holders around source and store.
func NewSession(source catalog.Source, store settings.Store, identity favorites.Identity, log logger.Logger) *Session {
	log = logger.Ensure(log)
	return &Session{
		Catalog:   catalog.New(source, catalog.WithLogger(log)),
		Favorites: favorites.New(favorites.WithIdentity(identity)),
		Settings:  settings.New(store, log),
	}
}

// Refresh reloads the catalog. Failures surface through Catalog.IsError.
func (s *Session) Refresh(ctx context.Context) {
	s.Catalog.Fetch(ctx)
}

// View returns the current articles filtered by category and query.
func (s *Session) View(category, query string) []domain.Article {
	return s.Catalog.View(category, query)
}

// ToggleFavorite adds a when absent and removes it otherwise. It reports
// whether a is a favorite afterwards.
func (s *Session) ToggleFavorite(a domain.Article) bool {
	return s.Favorites.Toggle(a)
}

// Select returns the detail route path the UI navigates to for a.
func (s *Session) Select(a domain.Article) string {
	return navigation.RouteFor(a).Path()
}

// Open decodes a detail route back into the article it was built from.
func (s *Session) Open(path string) (domain.Article, error) {
	route, err := navigation.ParseDetailPath(path)
	if err != nil {
		return domain.Article{}, fmt.Errorf("open detail route: %w", err)
	}
	return classify.Article(route.Article()), nil
}

// NotificationsEnabled reports the persisted toggle (default true).
func (s *Session) NotificationsEnabled() bool {
	return s.Settings.NotificationsEnabled()
}

// SetNotificationsEnabled persists the toggle.
func (s *Session) SetNotificationsEnabled(enabled bool) error {
	return s.Settings.SetNotificationsEnabled(enabled)
}

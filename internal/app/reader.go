package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/catalog"
	"github.com/samvad-hq/samvad-news-reader/internal/classify"
	"github.com/samvad-hq/samvad-news-reader/internal/config"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/enrich"
	"github.com/samvad-hq/samvad-news-reader/internal/favorites"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/internal/storage"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-reader/pkg/notifiers"
	"github.com/samvad-hq/samvad-news-reader/pkg/providers"
)

const (
	newsAPIProviderID = "newsapi"
	localNotifierID   = "local"
	enrichDelay       = 250 * time.Millisecond
)

// Announcer delivers a notification to every configured sink.
type Announcer interface {
	Notify(ctx context.Context, n notifiers.Notification) (int, error)
	Size() int
}

// Reader is the headless reader runtime. It refreshes the session on an
// interval and announces the first article of a fresh list once.
type Reader struct {
	session   *Session
	store     storage.Store
	announcer Announcer
	interval  time.Duration
	category  string
	search    string
	log       logger.Logger
}

// NewReader builds the runtime from config.
func NewReader(ctx context.Context, cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	category, err := classify.Parse(cfg.Category)
	if err != nil {
		return nil, fmt.Errorf("category filter: %w", err)
	}
	identity, err := favorites.IdentityFor(cfg.FavoritesIdentity)
	if err != nil {
		return nil, err
	}

	source, err := buildSource(cfg, log)
	if err != nil {
		return nil, err
	}

	fanout, err := buildAnnouncer(ctx, cfg.NotifiersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	r := newReader(NewSession(source, store, identity, log), store, fanout, cfg.RefreshInterval, log)
	r.category = category
	r.search = cfg.Search
	return r, nil
}

func newReader(session *Session, store storage.Store, announcer Announcer, interval time.Duration, log logger.Logger) *Reader {
	return &Reader{
		session:   session,
		store:     store,
		announcer: announcer,
		interval:  interval,
		category:  domain.AllLabel,
		log:       logger.Ensure(log),
	}
}

func buildSource(cfg *config.Config, log logger.Logger) (catalog.Source, error) {
	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	src, err := providers.NewSource(providers.DefaultFetcherRegistry(client), providers.Provider{
		ID:        newsAPIProviderID,
		Name:      "NewsAPI",
		Type:      providers.ProviderTypeNewsAPI,
		SourceURL: cfg.NewsAPIBaseURL,
		APIKey:    cfg.NewsAPIKey,
		Query: providers.Query{
			Q:      cfg.NewsQuery,
			From:   cfg.NewsFrom,
			To:     cfg.NewsTo,
			SortBy: cfg.NewsSortBy,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init news provider: %w", err)
	}
	log.InfoObj("news provider configured", "provider_meta", map[string]any{
		"id":       src.Provider().ID,
		"base_url": src.Provider().SourceURL,
		"query":    src.Provider().Query,
		"enrich":   cfg.EnrichMetadata,
	})

	if !cfg.EnrichMetadata {
		return src, nil
	}
	scraper := enrich.NewScraper(client, enrich.WithDelay(enrichDelay), enrich.WithLogger(log))
	return enrich.NewSource(src, scraper), nil
}

// buildAnnouncer loads the notifier registry. A missing file falls back to
// a single log notifier.
func buildAnnouncer(ctx context.Context, path string, log logger.Logger) (*notifiers.Fanout, error) {
	reg, err := notifiers.LoadRegistry(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WarnObj("notifiers file not found; using log notifier", "notifiers_file", path)
		return notifiers.NewFanout([]notifiers.Notifier{notifiers.NewLogNotifier(localNotifierID, log)}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabled := reg.Enabled()
	built, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]string{"id": n.ID, "type": n.Type})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})
	return notifiers.NewFanout(built), nil
}

// Session exposes the state holders driven by the runtime.
func (r *Reader) Session() *Session { return r.session }

// Run refreshes until the context is cancelled.
func (r *Reader) Run(ctx context.Context) error {
	if r == nil || r.session == nil {
		return fmt.Errorf("reader is not initialized")
	}
	defer r.close()

	states, unsubscribe := r.session.Catalog.Subscribe()
	defer unsubscribe()
	go r.watch(ctx, states)

	r.log.InfoObj("reader loop starting", "reader_state", map[string]any{
		"refresh_interval":      r.interval.String(),
		"notifiers_count":       r.announcerSize(),
		"category":              r.category,
		"search":                r.search,
		"notifications_enabled": r.session.NotificationsEnabled(),
	})

	if err := r.runOnce(ctx); err != nil {
		r.log.ErrorObj("initial refresh failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("reader loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled refresh failed", "error", err.Error())
			}
		}
	}
}

// runOnce refreshes the catalog, logs the filtered view and announces the
// head of the list when it is new.
func (r *Reader) runOnce(ctx context.Context) error {
	start := time.Now()
	r.session.Refresh(ctx)

	snap := r.session.Catalog.Snapshot()
	if snap.IsError {
		return fmt.Errorf("news fetch failed; keeping %d articles", len(snap.Articles))
	}

	view := r.session.View(r.category, r.search)
	r.log.InfoObj("refresh completed", "refresh_meta", map[string]any{
		"articles":   len(snap.Articles),
		"visible":    len(view),
		"categories": countByCategory(snap.Articles),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	r.announce(ctx, snap.Articles)
	return nil
}

func (r *Reader) announce(ctx context.Context, articles []domain.Article) {
	if len(articles) == 0 || r.announcer == nil {
		return
	}
	if !r.session.NotificationsEnabled() {
		r.log.DebugObj("notifications disabled; skipping", "notifications_enabled", false)
		return
	}

	head := articles[0]
	if r.store != nil {
		seen, err := r.store.SeenArticle(head.URL)
		if err != nil {
			r.log.WarnObj("announced lookup failed", "storage_error", map[string]any{
				"url":   head.URL,
				"error": err.Error(),
			})
		}
		if seen {
			return
		}
	}

	delivered, err := r.announcer.Notify(ctx, notifiers.ForArticle(head))
	if err != nil {
		r.log.WarnObj("notification delivery failed", "notify_error", map[string]any{
			"url":       head.URL,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
	if delivered == 0 {
		return
	}

	if r.store != nil {
		if err := r.store.MarkArticle(head.URL); err != nil {
			r.log.WarnObj("mark announced failed", "storage_error", map[string]any{
				"url":   head.URL,
				"error": err.Error(),
			})
		}
	}
	r.log.InfoObj("new article announced", "announcement", map[string]any{
		"title":     head.Title,
		"url":       head.URL,
		"category":  head.Category,
		"delivered": delivered,
	})
}

func (r *Reader) watch(ctx context.Context, states <-chan catalog.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			r.log.DebugObj("catalog state changed", "catalog_state", map[string]any{
				"articles":   len(st.Articles),
				"is_loading": st.IsLoading,
				"is_error":   st.IsError,
			})
		}
	}
}

func (r *Reader) announcerSize() int {
	if r.announcer == nil {
		return 0
	}
	return r.announcer.Size()
}

// close releases the storage backend and notifier connections, logging any errors.
func (r *Reader) close() {
	if c, ok := r.announcer.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			r.log.ErrorObj("notifiers close failed", "error", err.Error())
		}
	}
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}

func countByCategory(articles []domain.Article) map[domain.Category]int {
	out := make(map[domain.Category]int, len(classify.AllCategories()))
	for _, a := range articles {
		out[a.Category]++
	}
	return out
}

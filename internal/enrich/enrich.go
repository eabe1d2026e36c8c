package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	defaultUserAgent = "Mozilla/5.0 (compatible; samvad-news-reader/1.0)"
)

// Fetcher is the upstream the enricher wraps.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// Scraper fetches article pages and fills in missing descriptions and images
// from OG tags. Titles from the news API are never replaced.
type Scraper struct {
	client httpclient.Client
	delay  time.Duration
	log    logger.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithDelay throttles page fetches.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) { s.delay = d }
}

// WithLogger sets the logger used for scrape failures.
func WithLogger(log logger.Logger) Option {
	return func(s *Scraper) { s.log = logger.Ensure(log) }
}

// NewScraper constructs a scraper with the provided HTTP client.
func NewScraper(client httpclient.Client, opts ...Option) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	s := &Scraper{client: client, log: logger.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enrich visits every article that lacks a description or image. Articles are
// returned in order; on cancellation the untouched tail is kept as is.
func (s *Scraper) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	visited := 0
	for i, art := range articles {
		if art.Description != "" && art.ImageURL != "" {
			continue
		}
		if visited > 0 && s.delay > 0 {
			timer := time.NewTimer(s.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return out
		}
		visited++

		enriched, err := s.fetchAndParse(ctx, art)
		if err != nil {
			s.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[i] = enriched
	}

	return out
}

func (s *Scraper) fetchAndParse(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := s.client.Get(ctx, art.URL, map[string]string{
		"Accept":     "text/html,application/xhtml+xml",
		"User-Agent": defaultUserAgent,
	})
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet, _ := httpclient.Snippet(resp.Body(), 1024)
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}
	updated := art
	if updated.Description == "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" {
		updated.ImageURL = resolveURL(meta.ImageURL, art.URL)
	}
	return updated, nil
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
			extract(`meta[name="twitter:description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

// resolveURL makes ref absolute against the page URL.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if r.IsAbs() {
		return r.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Source decorates a Fetcher so every successful fetch is enriched.
type Source struct {
	next    Fetcher
	scraper *Scraper
}

// NewSource wraps next with scraper.
func NewSource(next Fetcher, scraper *Scraper) *Source {
	return &Source{next: next, scraper: scraper}
}

// Fetch delegates to the wrapped fetcher and enriches its result.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.scraper == nil {
		return articles, nil
	}
	return s.scraper.Enrich(ctx, articles), nil
}

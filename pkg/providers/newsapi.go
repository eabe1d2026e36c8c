package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// removedPlaceholder is the title NewsAPI uses for withdrawn articles.
const removedPlaceholder = "[Removed]"

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
}

// newsAPIFetcher implements Fetcher for the NewsAPI "everything" endpoint.
type newsAPIFetcher struct {
	client HTTPClient
}

// NewNewsAPIFetcher builds a NewsAPI fetcher over client.
func NewNewsAPIFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &newsAPIFetcher{client: client}
}

func (f *newsAPIFetcher) ID() string {
	return ProviderTypeNewsAPI
}

func (f *newsAPIFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeNewsAPI) {
		return nil, fmt.Errorf("newsapi fetcher received incompatible provider type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	endpoint := strings.TrimRight(cfg.SourceURL, "/") + "/everything"
	if params := cfg.Query.Values().Encode(); params != "" {
		endpoint += "?" + params
	}

	resp, err := f.client.Get(ctx, endpoint, Headers(cfg))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cfg.ID, err)
	}

	body := resp.Body()
	var payload newsAPIResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode() != http.StatusOK {
		if decodeErr == nil && payload.Message != "" {
			return nil, fmt.Errorf("%s returned status %d (%s): %s", cfg.ID, resp.StatusCode(), payload.Code, payload.Message)
		}
		return nil, fmt.Errorf("%s returned status %d body: %s", cfg.ID, resp.StatusCode(), responseSnippet(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s response: %w", cfg.ID, decodeErr)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("%s returned status %q (%s): %s", cfg.ID, payload.Status, payload.Code, payload.Message)
	}

	return buildArticles(payload.Articles), nil
}

func buildArticles(raw []newsAPIArticle) []domain.Article {
	articles := make([]domain.Article, 0, len(raw))
	for _, item := range raw {
		title := strings.TrimSpace(item.Title)
		url := strings.TrimSpace(item.URL)
		if url == "" || title == removedPlaceholder {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       title,
			Description: plainText(deref(item.Description)),
			URL:         url,
			ImageURL:    strings.TrimSpace(deref(item.URLToImage)),
			Category:    domain.General,
		})
	}
	return articles
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

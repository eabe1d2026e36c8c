package providers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

const sampleEverything = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {
      "source": {"id": null, "name": "Example"},
      "title": "Stocks rally as market hits record",
      "description": null,
      "url": "https://x",
      "urlToImage": null
    },
    {
      "title": "[Removed]",
      "description": "[Removed]",
      "url": "https://removed.com"
    },
    {
      "title": "Apple unveils <i>new</i> chip",
      "description": "<p>Faster &amp; cooler</p>",
      "url": "https://example.com/apple",
      "urlToImage": "https://example.com/apple.png"
    }
  ]
}`

type mockHTTPClient struct {
	t         *testing.T
	expect    map[string]string
	expectURL string
	status    int
	body      string
	err       error
}

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

func (m mockHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.expectURL != "" && url != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, url)
	}
	for key, want := range m.expect {
		if got := headers[key]; got != want {
			m.t.Fatalf("expected header %s=%q, got %q", key, want, got)
		}
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func newsAPIProvider() Provider {
	return Sanitize(Provider{
		ID:        "newsapi",
		Type:      ProviderTypeNewsAPI,
		SourceURL: "https://newsapi.org/v2",
		APIKey:    "key",
		Query:     Query{Q: "apple", From: "2025-01-28", To: "2025-01-28", SortBy: "popularity"},
	})
}

func TestNewsAPIFetcherFetchSuccess(t *testing.T) {
	client := mockHTTPClient{
		t:         t,
		expectURL: "https://newsapi.org/v2/everything?from=2025-01-28&q=apple&sortBy=popularity&to=2025-01-28",
		expect:    map[string]string{"X-Api-Key": "key"},
		body:      sampleEverything,
	}

	articles, err := NewNewsAPIFetcher(client).Fetch(context.Background(), newsAPIProvider())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (removed entry dropped), got %d", len(articles))
	}

	first := articles[0]
	want := domain.Article{Title: "Stocks rally as market hits record", URL: "https://x", Category: domain.General}
	if first != want {
		t.Fatalf("unexpected first article %#v", first)
	}

	second := articles[1]
	if second.Description != "Faster & cooler" {
		t.Fatalf("description not flattened: %q", second.Description)
	}
	if second.ImageURL != "https://example.com/apple.png" {
		t.Fatalf("unexpected image %q", second.ImageURL)
	}
}

func TestNewsAPIFetcherAPIError(t *testing.T) {
	client := mockHTTPClient{
		t:      t,
		status: 401,
		body:   `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`,
	}
	_, err := NewNewsAPIFetcher(client).Fetch(context.Background(), newsAPIProvider())
	if err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestNewsAPIFetcherErrors(t *testing.T) {
	cases := map[string]mockHTTPClient{
		"transport": {err: errors.New("dial tcp: timeout")},
		"status":    {status: 500, body: "oops"},
		"malformed": {body: "{not json"},
		"not ok":    {body: `{"status":"error","message":"rate limited"}`},
	}
	for name, client := range cases {
		client.t = t
		if _, err := NewNewsAPIFetcher(client).Fetch(context.Background(), newsAPIProvider()); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNewsAPIFetcherRejectsOtherTypes(t *testing.T) {
	p := newsAPIProvider()
	p.Type = "rss"
	if _, err := NewNewsAPIFetcher(mockHTTPClient{t: t}).Fetch(context.Background(), p); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestSourceFetchesThroughRegistry(t *testing.T) {
	reg := DefaultFetcherRegistry(mockHTTPClient{t: t, body: sampleEverything})
	src, err := NewSource(reg, newsAPIProvider())
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	articles, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
}

func TestNewSourceRejectsUnknownType(t *testing.T) {
	p := newsAPIProvider()
	p.Type = "rss"
	if _, err := NewSource(DefaultFetcherRegistry(mockHTTPClient{t: t}), p); err == nil {
		t.Fatalf("expected error for unregistered provider type")
	}
}

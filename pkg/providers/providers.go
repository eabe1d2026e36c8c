package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Package providers contains the news API fetchers the catalog pulls from.

const (
	// ProviderTypeNewsAPI fetches from the NewsAPI "everything" endpoint.
	ProviderTypeNewsAPI = "newsapi_everything"

	// SortPopularity is the sortBy value used by the reader by default.
	SortPopularity = "popularity"
)

// Provider describes one upstream news source and the fixed query sent to it.
type Provider struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Type      string         `json:"type" yaml:"type"`
	SourceURL string         `json:"source_url" yaml:"source_url"`
	APIKey    string         `json:"-" yaml:"api_key"`
	Query     Query          `json:"query" yaml:"query"`
	Config    map[string]any `json:"config" yaml:"config"`
}

// Query is the topic keyword, date range and sort order of a fetch.
// From and To are YYYY-MM-DD dates and may be empty.
type Query struct {
	Q      string `json:"q" yaml:"q"`
	From   string `json:"from,omitempty" yaml:"from"`
	To     string `json:"to,omitempty" yaml:"to"`
	SortBy string `json:"sort_by" yaml:"sort_by"`
}

// Values encodes the query as URL parameters, skipping empty fields.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(key, val)
		}
	}
	set("q", q.Q)
	set("from", q.From)
	set("to", q.To)
	set("sortBy", q.SortBy)
	return v
}

// Sanitize trims fields and applies defaults.
func Sanitize(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.SourceURL = strings.TrimRight(strings.TrimSpace(p.SourceURL), "/")
	p.APIKey = strings.TrimSpace(p.APIKey)
	p.Query.Q = strings.TrimSpace(p.Query.Q)
	p.Query.From = strings.TrimSpace(p.Query.From)
	p.Query.To = strings.TrimSpace(p.Query.To)
	p.Query.SortBy = strings.TrimSpace(p.Query.SortBy)

	if p.Name == "" {
		p.Name = p.ID
	}
	if p.Query.SortBy == "" {
		p.Query.SortBy = SortPopularity
	}
	if p.Config == nil {
		p.Config = map[string]any{}
	}
	return p
}

// Validate checks that required fields are present.
func Validate(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	if p.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", p.ID)
	}
	u, err := url.Parse(p.SourceURL)
	if err != nil {
		return fmt.Errorf("provider %q: invalid source_url: %w", p.ID, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider %q: source_url scheme must be http or https, got %q", p.ID, u.Scheme)
	}
	if p.Query.Q == "" {
		return fmt.Errorf("query is required for provider %q", p.ID)
	}
	return nil
}

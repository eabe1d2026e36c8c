package providers

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// Source binds a provider config to the fetcher registered for its type, so
// callers can fetch without carrying the config around.
type Source struct {
	provider Provider
	registry FetcherRegistry
}

// NewSource validates provider and resolves its fetcher eagerly.
func NewSource(reg FetcherRegistry, provider Provider) (*Source, error) {
	if reg == nil {
		return nil, fmt.Errorf("fetcher registry must not be nil")
	}
	provider = Sanitize(provider)
	if err := Validate(provider); err != nil {
		return nil, err
	}
	if _, err := reg.FetcherFor(provider); err != nil {
		return nil, err
	}
	return &Source{provider: provider, registry: reg}, nil
}

// Provider returns the sanitized provider config.
func (s *Source) Provider() Provider { return s.provider }

// Fetch runs one request against the provider.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	fetcher, err := s.registry.FetcherFor(s.provider)
	if err != nil {
		return nil, fmt.Errorf("resolve fetcher for provider %s: %w", s.provider.ID, err)
	}
	articles, err := fetcher.Fetch(ctx, s.provider)
	if err != nil {
		return nil, fmt.Errorf("fetch provider %s: %w", s.provider.ID, err)
	}
	return articles, nil
}

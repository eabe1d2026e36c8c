package providers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

// TypeRegistry resolves fetchers by provider type.
type TypeRegistry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewTypeRegistry builds a registry from a type -> fetcher map.
func NewTypeRegistry(fetchers map[string]Fetcher) *TypeRegistry {
	reg := &TypeRegistry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for typ, f := range fetchers {
		reg.Register(typ, f)
	}
	return reg
}

// Register associates f with a provider type. Empty types and nil fetchers are ignored.
func (r *TypeRegistry) Register(typ string, f Fetcher) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" || f == nil {
		return
	}
	r.mu.Lock()
	r.fetchers[key] = f
	r.mu.Unlock()
}

// FetcherFor returns the fetcher registered for cfg.Type.
func (r *TypeRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("provider %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	f, ok := r.fetchers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for provider %q (type %q)", cfg.ID, cfg.Type)
	}
	return f, nil
}

// DefaultHTTPClient returns the resty-backed client used by provider fetchers.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultFetcherRegistry wires up known provider fetchers.
func DefaultFetcherRegistry(client HTTPClient) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewTypeRegistry(map[string]Fetcher{
		ProviderTypeNewsAPI: NewNewsAPIFetcher(client),
	})
}

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NewsQuery != "apple" || cfg.NewsSortBy != "popularity" {
		t.Fatalf("unexpected query defaults: %q %q", cfg.NewsQuery, cfg.NewsSortBy)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Fatalf("unexpected refresh interval %v", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
	if cfg.StorageTTL != 5*24*time.Hour {
		t.Fatalf("unexpected storage ttl %v", cfg.StorageTTL)
	}
	if cfg.FavoritesIdentity != "content" || cfg.Category != "All" {
		t.Fatalf("unexpected defaults %q %q", cfg.FavoritesIdentity, cfg.Category)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("NEWS_QUERY", "cricket")
	t.Setenv("NEWS_FROM", "2025-01-28")
	t.Setenv("REFRESH_INTERVAL", "60")
	t.Setenv("FAVORITES_IDENTITY", "URL")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NewsQuery != "cricket" || cfg.NewsFrom != "2025-01-28" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Fatalf("unexpected refresh interval %v", cfg.RefreshInterval)
	}
	if cfg.FavoritesIdentity != "url" {
		t.Fatalf("identity not normalized: %q", cfg.FavoritesIdentity)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"NEWS_TO":            "28/01/2025",
		"REFRESH_INTERVAL":   "0",
		"FAVORITES_IDENTITY": "title",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// NewsAPIDateLayout is the date format accepted by the news_from/news_to settings.
const NewsAPIDateLayout = "2006-01-02"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	NewsAPIBaseURL        string        `mapstructure:"news_api_base_url"`
	NewsAPIKey            string        `mapstructure:"news_api_key"`
	NewsQuery             string        `mapstructure:"news_query"`
	NewsFrom              string        `mapstructure:"news_from"`
	NewsTo                string        `mapstructure:"news_to"`
	NewsSortBy            string        `mapstructure:"news_sort_by"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	EnrichMetadata        bool          `mapstructure:"enrich_metadata"`

	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	NotifiersFile     string `mapstructure:"notifiers_file"`
	FavoritesIdentity string `mapstructure:"favorites_identity"`
	Category          string `mapstructure:"category"`
	Search            string `mapstructure:"search"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "samvad-news-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("news_api_base_url", "https://newsapi.org/v2")
	v.SetDefault("news_api_key", "")
	v.SetDefault("news_query", "apple")
	v.SetDefault("news_from", "")
	v.SetDefault("news_to", "")
	v.SetDefault("news_sort_by", "popularity")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("enrich_metadata", false)
	v.SetDefault("refresh_interval", 900) // seconds
	v.SetDefault("notifiers_file", "./configs/notifiers.yaml")
	v.SetDefault("favorites_identity", "content")
	v.SetDefault("category", "All")
	v.SetDefault("search", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/reader.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.NewsAPIBaseURL) == "" {
		return nil, fmt.Errorf("news_api_base_url is required")
	}
	if strings.TrimSpace(cfg.NewsQuery) == "" {
		return nil, fmt.Errorf("news_query is required")
	}
	for key, val := range map[string]string{"news_from": cfg.NewsFrom, "news_to": cfg.NewsTo} {
		if val == "" {
			continue
		}
		if _, err := time.Parse(NewsAPIDateLayout, val); err != nil {
			return nil, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", key, val)
		}
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.RefreshIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid refresh_interval (must be positive seconds)")
	}
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second

	switch strings.ToLower(strings.TrimSpace(cfg.FavoritesIdentity)) {
	case "content", "url":
		cfg.FavoritesIdentity = strings.ToLower(strings.TrimSpace(cfg.FavoritesIdentity))
	default:
		return nil, fmt.Errorf("invalid favorites_identity %q (valid: content, url)", cfg.FavoritesIdentity)
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// Package settings exposes the reader preferences backed by an injected
// key-value store.
package settings

import (
	"fmt"

	"github.com/samvad-hq/samvad-news-reader/internal/logger"
)

// KeyNotificationsEnabled is the store key of the notifications toggle.
const KeyNotificationsEnabled = "notifications_enabled"

// Store is the key-value port settings are read from and written to.
type Store interface {
	Bool(key string, def bool) (bool, error)
	SetBool(key string, value bool) error
}

// Settings reads and writes reader preferences.
type Settings struct {
	store Store
	log   logger.Logger
}

// New wraps store. A nil log discards store errors.
func New(store Store, log logger.Logger) *Settings {
	return &Settings{store: store, log: logger.Ensure(log)}
}

// NotificationsEnabled returns the toggle, defaulting to true. Store errors
// are logged and yield the default.
func (s *Settings) NotificationsEnabled() bool {
	if s == nil || s.store == nil {
		return true
	}
	v, err := s.store.Bool(KeyNotificationsEnabled, true)
	if err != nil {
		s.log.WarnObj("settings read failed", "settings_error", map[string]any{
			"key":   KeyNotificationsEnabled,
			"error": err.Error(),
		})
		return true
	}
	return v
}

// SetNotificationsEnabled persists the toggle.
func (s *Settings) SetNotificationsEnabled(enabled bool) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("settings store is not configured")
	}
	if err := s.store.SetBool(KeyNotificationsEnabled, enabled); err != nil {
		return fmt.Errorf("write %s: %w", KeyNotificationsEnabled, err)
	}
	return nil
}

package notifiers

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// Notifier delivers a new-content notification to one sink (log, webhook, push topic, queue).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, n Notification) error
}

// Notification is the payload describing freshly arrived content.
type Notification struct {
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	ImageURL   string          `json:"image_url,omitempty"`
	ArticleURL string          `json:"article_url"`
	Category   domain.Category `json:"category"`
	SentAt     time.Time       `json:"sent_at"`
}

// ForArticle builds the notification announcing a.
func ForArticle(a domain.Article) Notification {
	return Notification{
		Title:      a.Title,
		Body:       "New article: " + a.Title,
		ImageURL:   a.ImageURL,
		ArticleURL: a.URL,
		Category:   a.Category,
		SentAt:     time.Now().UTC(),
	}
}

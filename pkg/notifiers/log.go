package notifiers

import (
	"context"
	"fmt"
)

// logNotifier writes notifications to the structured log. It is the local
// fallback when no external sink is configured.
type logNotifier struct {
	id  string
	log Logger
}

func newLogNotifier(_ context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	if log == nil {
		return nil, fmt.Errorf("notifier %q requires a logger", cfg.ID)
	}
	return &logNotifier{id: cfg.ID, log: log}, nil
}

// NewLogNotifier returns a notifier that logs through log.
func NewLogNotifier(id string, log Logger) Notifier {
	return &logNotifier{id: id, log: ensureLogger(log)}
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return TypeLog }

func (l *logNotifier) Notify(_ context.Context, n Notification) error {
	l.log.InfoObj(n.Body, "notification", n)
	return nil
}

package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAuthFailure logs and discards a failure event.
func (n *NoOpNotifier) SendAuthFailure(_ context.Context, event *AuthEvent) error {
	n.log.Debug("auth failure notification discarded (no backend configured)",
		"site", event.Site,
		"error", event.Error,
	)
	return nil
}

// SendAuthRecovered logs and discards a recovery event.
func (n *NoOpNotifier) SendAuthRecovered(_ context.Context, event *AuthEvent) error {
	n.log.Debug("auth recovery notification discarded (no backend configured)",
		"site", event.Site,
	)
	return nil
}

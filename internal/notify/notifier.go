// Package notify delivers operational notifications, such as a MercadoLibre
// credential that can no longer be refreshed.
package notify

import (
	"context"
	"time"
)

// AuthEvent describes a change in the health of the API credential.
type AuthEvent struct {
	Site       string
	Error      string    // empty for a recovery
	ExpiresAt  time.Time // expiry of the last good access token, zero if unknown
	OccurredAt time.Time
}

// Notifier sends credential health notifications.
type Notifier interface {
	SendAuthFailure(ctx context.Context, event *AuthEvent) error
	SendAuthRecovered(ctx context.Context, event *AuthEvent) error
}

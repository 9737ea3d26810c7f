package messaging

import (
	"context"
)

// Broker defines the interface for the real-time message channel. Publishes
// are best-effort signals: callers are expected to log and move on when one
// fails.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// NotificationChannel returns the per-recipient channel key.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}

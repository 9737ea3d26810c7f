package push

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher sends a push notification to a user's registered devices.
// Provider integration (FCM, APNs, ...) lives behind this interface; the
// in-repo implementation only logs.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID uuid.UUID, title, body string) error
}

type logDispatcher struct {
	logger *zerolog.Logger
}

// NewLogDispatcher returns a Dispatcher that records the send without
// delivering anything.
func NewLogDispatcher(logger *zerolog.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(_ context.Context, userID uuid.UUID, title, body string) error {
	d.logger.Info().
		Str("user_id", userID.String()).
		Str("title", title).
		Str("body", body).
		Msg("push notification dispatched")
	return nil
}

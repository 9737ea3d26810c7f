package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/pkg/logger"
)

// Recorder is the fire-and-forget front to the activity service. Callers use
// it when recording is a side effect of their primary operation: failures are
// logged and swallowed so they never abort the triggering action.
type Recorder struct {
	service *Service
	logger  *logger.Logger
}

func NewRecorder(service *Service, log *logger.Logger) *Recorder {
	return &Recorder{service: service, logger: log}
}

// Record writes the entry asynchronously. The caller's context is not
// carried into the write: the record should land even when the originating
// request has already completed.
func (r *Recorder) Record(userID uuid.UUID, activityType model.ActivityType, opts *RecordOptions) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := r.service.Record(ctx, userID, activityType, opts); err != nil {
			r.logger.Error(err, "failed to record activity",
				"user_id", userID.String(),
				"activity_type", activityType.String(),
			)
		}
	}()
}

// RecordSync writes the entry on the caller's goroutine and returns its
// error. Used where the caller wants the validation result.
func (r *Recorder) RecordSync(ctx context.Context, userID uuid.UUID, activityType model.ActivityType, opts *RecordOptions) (*model.UserActivity, error) {
	return r.service.Record(ctx, userID, activityType, opts)
}

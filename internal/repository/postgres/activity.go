package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
)

// activityColumns selects with NULL weak-reference columns coalesced to zero
// values so rows scan into value fields.
const activityColumns = `
	id, user_id, activity_type, description,
	COALESCE(trackable_type, '') AS trackable_type,
	COALESCE(trackable_id, '00000000-0000-0000-0000-000000000000'::uuid) AS trackable_id,
	metadata, created_at
`

type activityRepository struct {
	BaseRepository
}

func NewActivityRepository(base BaseRepository) repository.ActivityRepository {
	return &activityRepository{base}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	query := `
        INSERT INTO user_activities (
            id, user_id, activity_type, description,
            trackable_type, trackable_id, metadata, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	var trackableType, trackableID interface{}
	if !activity.Trackable().IsZero() {
		trackableType = activity.TrackableType
		trackableID = activity.TrackableID
	}

	_, err := r.GetDB().ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.ActivityType,
		activity.Description,
		trackableType,
		trackableID,
		activity.Metadata,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *activityRepository) Prune(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	query := `
        DELETE FROM user_activities
        WHERE user_id = $1
          AND id IN (
            SELECT id FROM user_activities
            WHERE user_id = $1
            ORDER BY created_at DESC
            OFFSET $2
          )
    `

	result, err := r.GetDB().ExecContext(ctx, query, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}

	return result.RowsAffected()
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.UserActivity, error) {
	query := `
        SELECT ` + activityColumns + `
        FROM user_activities
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	var activities []*model.UserActivity
	if err := r.GetDB().SelectContext(ctx, &activities, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (r *activityRepository) ListWithPagination(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.UserActivity, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM user_activities WHERE user_id = $1`
	if err := r.GetDB().GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `
        SELECT ` + activityColumns + `
        FROM user_activities
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	var activities []*model.UserActivity
	if err := r.GetDB().SelectContext(ctx, &activities, query, userID, p.Limit(), p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, total, nil
}

func (r *activityRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM user_activities WHERE user_id = $1`
	if err := r.GetDB().GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func (r *activityRepository) CountByTypeSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[model.ActivityType]int64, error) {
	query := `
        SELECT activity_type, COUNT(*) AS count
        FROM user_activities
        WHERE user_id = $1 AND created_at >= $2
        GROUP BY activity_type
    `

	rows, err := r.GetDB().QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ActivityType]int64)
	for rows.Next() {
		var activityType model.ActivityType
		var count int64
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, err
		}
		counts[activityType] = count
	}
	return counts, rows.Err()
}

func (r *activityRepository) CountByDaySince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int64, error) {
	query := `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*) AS count
        FROM user_activities
        WHERE user_id = $1 AND created_at >= $2
        GROUP BY day
    `

	rows, err := r.GetDB().QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities by day: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

func (r *activityRepository) TopUsers(ctx context.Context, since time.Time, limit int) ([]model.UserActivityCount, error) {
	query := `
        SELECT u.username, COUNT(*) AS count
        FROM user_activities a
        JOIN users u ON u.id = a.user_id
        WHERE a.created_at >= $1
        GROUP BY u.username
        ORDER BY count DESC
        LIMIT $2
    `

	var counts []model.UserActivityCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, since, limit); err != nil {
		return nil, fmt.Errorf("failed to rank users by activity: %w", err)
	}
	return counts, nil
}

func (r *activityRepository) Analytics(ctx context.Context) (*model.ActivityAnalytics, error) {
	analytics := &model.ActivityAnalytics{
		ByType: make(map[model.ActivityType]int64),
		ByDay:  make(map[string]int64),
	}

	if err := r.GetDB().GetContext(ctx, &analytics.TotalActivities,
		`SELECT COUNT(*) FROM user_activities`); err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	monthAgo := time.Now().AddDate(0, -1, 0)
	if err := r.GetDB().GetContext(ctx, &analytics.ThisMonth,
		`SELECT COUNT(*) FROM user_activities WHERE created_at >= $1`, monthAgo); err != nil {
		return nil, fmt.Errorf("failed to count recent activities: %w", err)
	}
	analytics.DailyAverage = float64(analytics.ThisMonth) / 30.0

	rows, err := r.GetDB().QueryContext(ctx,
		`SELECT activity_type, COUNT(*) FROM user_activities GROUP BY activity_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var activityType model.ActivityType
		var count int64
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, err
		}
		analytics.ByType[activityType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := r.GetDB().QueryContext(ctx, `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM user_activities
        WHERE created_at >= $1
        GROUP BY day
    `, monthAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities by day: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var day string
		var count int64
		if err := dayRows.Scan(&day, &count); err != nil {
			return nil, err
		}
		analytics.ByDay[day] = count
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	topUsers, err := r.TopUsers(ctx, monthAgo, 10)
	if err != nil {
		return nil, err
	}
	analytics.TopUsers = topUsers

	return analytics, nil
}

func (r *activityRepository) UserIDsOverLimit(ctx context.Context, keep int) ([]uuid.UUID, error) {
	query := `
        SELECT user_id
        FROM user_activities
        GROUP BY user_id
        HAVING COUNT(*) > $1
    `

	var userIDs []uuid.UUID
	if err := r.GetDB().SelectContext(ctx, &userIDs, query, keep); err != nil {
		return nil, fmt.Errorf("failed to find users over retention limit: %w", err)
	}
	return userIDs, nil
}

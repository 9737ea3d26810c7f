package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

const notificationColumns = `
	id, user_id,
	COALESCE(actor_id, '00000000-0000-0000-0000-000000000000'::uuid) AS actor_id,
	COALESCE(notifiable_type, '') AS notifiable_type,
	COALESCE(notifiable_id, '00000000-0000-0000-0000-000000000000'::uuid) AS notifiable_id,
	notification_type, priority, title, message,
	COALESCE(url, '') AS url,
	read_at, metadata, created_at
`

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (
            id, user_id, actor_id, notifiable_type, notifiable_id,
            notification_type, priority, title, message, url,
            read_at, metadata, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	var actorID interface{}
	if n.ActorID != uuid.Nil {
		actorID = n.ActorID
	}
	var notifiableType, notifiableID interface{}
	if !n.Notifiable().IsZero() {
		notifiableType = n.NotifiableType
		notifiableID = n.NotifiableID
	}
	var url interface{}
	if n.URL != "" {
		url = n.URL
	}

	_, err := r.GetDB().ExecContext(ctx, query,
		n.ID,
		n.UserID,
		actorID,
		notifiableType,
		notifiableID,
		n.Type,
		n.Priority,
		n.Title,
		n.Message,
		url,
		n.ReadAt,
		n.Metadata,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n model.Notification
	if err := r.GetDB().GetContext(ctx, &n, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("notification", err)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`

	result, err := r.GetDB().ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *notificationRepository) MarkUnread(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET read_at = NULL WHERE id = $1 AND read_at IS NOT NULL`

	result, err := r.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification unread: %w", err)
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	query := `UPDATE notifications SET read_at = $2 WHERE user_id = $1 AND read_at IS NULL`

	result, err := r.GetDB().ExecContext(ctx, query, userID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	if _, err := r.GetDB().ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `DELETE FROM notifications WHERE user_id = $1`

	result, err := r.GetDB().ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return result.RowsAffected()
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	if err := r.GetDB().GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	query := `
        SELECT ` + notificationColumns + `
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	var notifications []*model.Notification
	if err := r.GetDB().SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListWithPagination(ctx context.Context, userID uuid.UUID, filter model.NotificationFilter, p model.Pagination) ([]*model.Notification, int64, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	switch filter {
	case model.NotificationFilterUnread:
		where += " AND read_at IS NULL"
	case model.NotificationFilterSystem:
		where += " AND notification_type IN (" + typeCodeList(model.SystemNotificationTypes) + ")"
	case model.NotificationFilterSocial:
		where += " AND notification_type IN (" + typeCodeList(model.SocialNotificationTypes) + ")"
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM notifications " + where
	if err := r.GetDB().GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	args = append(args, p.Limit(), p.Offset())
	query := fmt.Sprintf(
		"SELECT %s FROM notifications %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		notificationColumns, where, len(args)-1, len(args),
	)

	var notifications []*model.Notification
	if err := r.GetDB().SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *notificationRepository) Analytics(ctx context.Context) (*model.NotificationAnalytics, error) {
	analytics := &model.NotificationAnalytics{
		ByType:     make(map[model.NotificationType]int64),
		ByPriority: make(map[model.Priority]int64),
	}

	if err := r.GetDB().GetContext(ctx, &analytics.TotalNotifications,
		`SELECT COUNT(*) FROM notifications`); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	if err := r.GetDB().GetContext(ctx, &analytics.UnreadNotifications,
		`SELECT COUNT(*) FROM notifications WHERE read_at IS NULL`); err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := r.GetDB().GetContext(ctx, &analytics.ThisWeek,
		`SELECT COUNT(*) FROM notifications WHERE created_at >= $1`, weekAgo); err != nil {
		return nil, fmt.Errorf("failed to count recent notifications: %w", err)
	}

	typeRows, err := r.GetDB().QueryContext(ctx,
		`SELECT notification_type, COUNT(*) FROM notifications GROUP BY notification_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications by type: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var notificationType model.NotificationType
		var count int64
		if err := typeRows.Scan(&notificationType, &count); err != nil {
			return nil, err
		}
		analytics.ByType[notificationType] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, err
	}

	priorityRows, err := r.GetDB().QueryContext(ctx,
		`SELECT priority, COUNT(*) FROM notifications GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications by priority: %w", err)
	}
	defer priorityRows.Close()
	for priorityRows.Next() {
		var priority model.Priority
		var count int64
		if err := priorityRows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		analytics.ByPriority[priority] = count
	}
	if err := priorityRows.Err(); err != nil {
		return nil, err
	}

	recipientQuery := `
        SELECT u.username, COUNT(*) AS count
        FROM notifications n
        JOIN users u ON u.id = n.user_id
        GROUP BY u.username
        ORDER BY count DESC
        LIMIT 10
    `
	if err := r.GetDB().SelectContext(ctx, &analytics.TopRecipients, recipientQuery); err != nil {
		return nil, fmt.Errorf("failed to rank notification recipients: %w", err)
	}

	return analytics, nil
}

func typeCodeList(types []model.NotificationType) string {
	codes := make([]string, len(types))
	for i, t := range types {
		codes[i] = fmt.Sprintf("%d", int(t))
	}
	return strings.Join(codes, ", ")
}

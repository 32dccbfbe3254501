package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// NotificationRepo implements NotificationRepository using PostgreSQL.
type NotificationRepo struct{ db *DB }

// NewNotificationRepo constructs a notification repository.
func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationColumns = `id, user_id, kind, message, reference_id, read, created_at`

// Create inserts a notification. A Nil ReferenceID is stored as NULL.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, user_id, kind, message, reference_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	ref := uuid.NullUUID{UUID: n.ReferenceID, Valid: n.ReferenceID != uuid.Nil}
	err := r.db.queryRow(ctx, q, n.ID, n.UserID, string(n.Kind), n.Message, ref).Scan(&n.CreatedAt)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// GetByID returns a notification.
func (r *NotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id=$1`
	n, err := scanNotification(r.db.queryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	if unreadOnly {
		q += ` AND NOT read`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// MarkRead sets the read flag of one notification.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.exec(ctx, `UPDATE notifications SET read=true WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.exec(ctx, `UPDATE notifications SET read=true WHERE user_id=$1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread counts unread notifications of the user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT read`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// DeleteByReference removes notifications of a kind pointing at refID.
func (r *NotificationRepo) DeleteByReference(ctx context.Context, kind model.NotificationKind, refID uuid.UUID) error {
	_, err := r.db.exec(ctx, `DELETE FROM notifications WHERE kind=$1 AND reference_id=$2`, string(kind), refID)
	if err != nil {
		return fmt.Errorf("delete notifications by reference: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var (
		n    model.Notification
		kind string
		ref  uuid.NullUUID
	)
	if err := row.Scan(&n.ID, &n.UserID, &kind, &n.Message, &ref, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Kind = model.NotificationKind(kind)
	if ref.Valid {
		n.ReferenceID = ref.UUID
	}
	return &n, nil
}

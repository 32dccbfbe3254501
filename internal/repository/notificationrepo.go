package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// NotificationRepository stores user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	// ListByUser returns notifications for a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	// MarkAllRead marks every unread notification of the user and reports how many changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteByReference removes notifications of a kind that point at refID.
	DeleteByReference(ctx context.Context, kind model.NotificationKind, refID uuid.UUID) error
}

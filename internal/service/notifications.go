package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// NotificationService lets users read their notifications.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type NotificationServiceImpl struct {
	notifications repository.NotificationRepository
}

// NewNotificationService constructs NotificationService.
func NewNotificationService(notifications repository.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{notifications: notifications}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead marks one notification of userID as read.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("%w: not your notification", errs.ErrForbidden)
	}
	if n.Read {
		return nil
	}
	return s.notifications.MarkRead(ctx, id)
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

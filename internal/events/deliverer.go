package events

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// RequestLookup resolves purchase requests referenced by events.
type RequestLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
}

// Deliverer persists events as notifications for their target user.
type Deliverer struct {
	repo     repository.NotificationRepository
	requests RequestLookup
	log      *zap.Logger
}

// NewDeliverer constructs a Deliverer. requests may be nil, in which case
// request_received events are stored without checking the request.
func NewDeliverer(repo repository.NotificationRepository, requests RequestLookup, log *zap.Logger) *Deliverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deliverer{repo: repo, requests: requests, log: log.Named("deliverer")}
}

// Handle stores ev as a notification. Failures are logged, never returned.
func (d *Deliverer) Handle(ctx context.Context, ev model.Event) error {
	if ev.TargetUserID == uuid.Nil {
		d.log.Warn("event without target user", zap.String("kind", string(ev.Kind)))
		return nil
	}
	if d.withdrawn(ctx, ev) {
		d.log.Debug("skip notice for withdrawn request", zap.String("request_id", ev.RequestID.String()))
		return nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		d.log.Error("notification id", zap.Error(err))
		return nil
	}
	ref := ev.RequestID
	if ref == uuid.Nil {
		ref = ev.ListingID
	}
	n := &model.Notification{
		ID:          id,
		UserID:      ev.TargetUserID,
		Kind:        ev.Kind,
		Message:     ev.Message,
		ReferenceID: ref,
	}
	if err := d.repo.Create(ctx, n); err != nil {
		d.log.Error("store notification",
			zap.String("kind", string(ev.Kind)),
			zap.String("user_id", ev.TargetUserID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// withdrawn reports whether a request_received event points at a request
// that was cancelled or decided before the event got here. Lookup errors
// count as not withdrawn.
func (d *Deliverer) withdrawn(ctx context.Context, ev model.Event) bool {
	if d.requests == nil || ev.Kind != model.KindRequestReceived || ev.RequestID == uuid.Nil {
		return false
	}
	pr, err := d.requests.GetByID(ctx, ev.RequestID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return true
	case err != nil:
		d.log.Warn("look up request", zap.String("request_id", ev.RequestID.String()), zap.Error(err))
		return false
	default:
		return pr.Status != model.StatusPending
	}
}

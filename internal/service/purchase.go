package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/events"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/metrics"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// MaxRequestMessage is the longest accepted purchase request note, in characters.
const MaxRequestMessage = 1000

// PurchaseService drives the purchase request workflow of a listing.
//
// State per (listing, buyer): NONE -> PENDING -> APPROVED | REJECTED.
// Cancel returns a PENDING request to NONE; ReverseSale returns every
// request of the listing to NONE.
type PurchaseService interface {
	// Create files a PENDING request from buyerID and notifies the seller.
	Create(ctx context.Context, listingID, buyerID uuid.UUID, message string) (model.PurchaseRequest, error)
	// Approve sells the listing to the selected pending buyer and rejects the rest.
	// buyerID == uuid.Nil selects the oldest pending request.
	Approve(ctx context.Context, listingID, sellerID, buyerID uuid.UUID) (model.Sale, error)
	// Reject declines a pending request. buyerID == uuid.Nil selects the oldest one.
	Reject(ctx context.Context, listingID, sellerID, buyerID uuid.UUID) error
	// Cancel withdraws the buyer's own pending request.
	Cancel(ctx context.Context, listingID, buyerID uuid.UUID) error
	// ReverseSale undoes a completed sale and clears the listing's request history.
	ReverseSale(ctx context.Context, listingID, sellerID uuid.UUID) error
	// Status reports the buyer's latest request status, or StatusNone.
	Status(ctx context.Context, listingID, buyerID uuid.UUID) (model.RequestStatus, error)
	// ListForListing returns the requests of a listing to its seller.
	ListForListing(ctx context.Context, listingID, sellerID uuid.UUID) ([]model.PurchaseRequestView, error)
}

// PurchaseDeps collects the collaborators of PurchaseServiceImpl.
type PurchaseDeps struct {
	UoW           repository.UnitOfWork
	Listings      repository.ListingRepository
	Requests      repository.RequestRepository
	Sales         repository.SaleRepository
	Notifications repository.NotificationRepository
	Publisher     events.Publisher
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

type PurchaseServiceImpl struct {
	uow           repository.UnitOfWork
	listings      repository.ListingRepository
	requests      repository.RequestRepository
	sales         repository.SaleRepository
	notifications repository.NotificationRepository
	pub           events.Publisher
	metrics       *metrics.Metrics
	log           *zap.Logger
	now           func() time.Time
}

// NewPurchaseService constructs the workflow service. A nil Publisher
// discards events and a nil Logger logs nothing.
func NewPurchaseService(d PurchaseDeps) *PurchaseServiceImpl {
	pub := d.Publisher
	if pub == nil {
		pub = events.Nop{}
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseServiceImpl{
		uow:           d.UoW,
		listings:      d.Listings,
		requests:      d.Requests,
		sales:         d.Sales,
		notifications: d.Notifications,
		pub:           pub,
		metrics:       d.Metrics,
		log:           log.Named("purchase"),
		now:           time.Now,
	}
}

// Create implements PurchaseService.
func (s *PurchaseServiceImpl) Create(ctx context.Context, listingID, buyerID uuid.UUID, message string) (req model.PurchaseRequest, err error) {
	defer func() { s.metrics.Transition("create", err) }()

	if listingID == uuid.Nil || buyerID == uuid.Nil {
		return model.PurchaseRequest{}, fmt.Errorf("%w: listing and buyer are required", errs.ErrValidation)
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > MaxRequestMessage {
		return model.PurchaseRequest{}, fmt.Errorf("%w: message longer than %d characters", errs.ErrValidation, MaxRequestMessage)
	}

	var listing *model.Listing
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.listings.GetForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if l.SellerID == buyerID {
			return fmt.Errorf("%w: cannot request your own listing", errs.ErrInvalidOperation)
		}
		if l.Sold {
			return fmt.Errorf("%w: listing already sold", errs.ErrInvalidOperation)
		}
		if _, err := s.requests.FindActive(ctx, listingID, buyerID); err == nil {
			return fmt.Errorf("%w: you already have an active request for this listing", errs.ErrConflict)
		} else if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		req = model.PurchaseRequest{
			ID:        id,
			ListingID: listingID,
			BuyerID:   buyerID,
			Message:   message,
			Status:    model.StatusPending,
		}
		if err := s.requests.Create(ctx, &req); err != nil {
			return err
		}
		listing = l
		return nil
	})
	if err != nil {
		return model.PurchaseRequest{}, err
	}

	s.emit(ctx, model.Event{
		Kind:         model.KindRequestReceived,
		TargetUserID: listing.SellerID,
		ListingID:    listingID,
		RequestID:    req.ID,
		Message:      fmt.Sprintf("New purchase request for %q.", listing.Title),
	})
	return req, nil
}

// Approve implements PurchaseService.
func (s *PurchaseServiceImpl) Approve(ctx context.Context, listingID, sellerID, buyerID uuid.UUID) (sale model.Sale, err error) {
	defer func() { s.metrics.Transition("approve", err) }()

	var (
		listing  *model.Listing
		approved *model.PurchaseRequest
		rejected []model.PurchaseRequest
	)
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		l, pr, err := s.lockPending(ctx, listingID, sellerID, buyerID)
		if err != nil {
			return err
		}
		if err := s.requests.UpdateStatus(ctx, pr.ID, model.StatusApproved); err != nil {
			return err
		}
		others, err := s.requests.RejectOtherPending(ctx, listingID, pr.ID)
		if err != nil {
			return err
		}

		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		sale = model.Sale{ID: id, ListingID: listingID, BuyerID: pr.BuyerID}
		if err := s.sales.Create(ctx, &sale); err != nil {
			return err
		}
		if err := s.listings.SetSold(ctx, listingID, true); err != nil {
			return err
		}

		pr.Status = model.StatusApproved
		listing, approved, rejected = l, pr, others
		return nil
	})
	if err != nil {
		return model.Sale{}, err
	}

	s.emit(ctx, model.Event{
		Kind:         model.KindRequestApproved,
		TargetUserID: approved.BuyerID,
		ListingID:    listingID,
		RequestID:    approved.ID,
		Message:      fmt.Sprintf("Your purchase request for %q was approved.", listing.Title),
	})
	for _, r := range rejected {
		s.emit(ctx, model.Event{
			Kind:         model.KindRequestRejected,
			TargetUserID: r.BuyerID,
			ListingID:    listingID,
			RequestID:    r.ID,
			Message:      fmt.Sprintf("%q was sold to another buyer.", listing.Title),
		})
	}
	return sale, nil
}

// Reject implements PurchaseService.
func (s *PurchaseServiceImpl) Reject(ctx context.Context, listingID, sellerID, buyerID uuid.UUID) (err error) {
	defer func() { s.metrics.Transition("reject", err) }()

	var (
		listing *model.Listing
		req     *model.PurchaseRequest
	)
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		l, pr, err := s.lockPending(ctx, listingID, sellerID, buyerID)
		if err != nil {
			return err
		}
		if err := s.requests.UpdateStatus(ctx, pr.ID, model.StatusRejected); err != nil {
			return err
		}
		listing, req = l, pr
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, model.Event{
		Kind:         model.KindRequestRejected,
		TargetUserID: req.BuyerID,
		ListingID:    listingID,
		RequestID:    req.ID,
		Message:      fmt.Sprintf("Your purchase request for %q was rejected.", listing.Title),
	})
	return nil
}

// lockPending locks the listing, checks the seller may decide on it and
// returns the selected pending request.
func (s *PurchaseServiceImpl) lockPending(ctx context.Context, listingID, sellerID, buyerID uuid.UUID) (*model.Listing, *model.PurchaseRequest, error) {
	l, err := s.listings.GetForUpdate(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}
	if l.SellerID != sellerID {
		return nil, nil, fmt.Errorf("%w: only the seller can decide on requests", errs.ErrForbidden)
	}
	if l.Sold {
		return nil, nil, fmt.Errorf("%w: listing already sold", errs.ErrInvalidOperation)
	}
	pr, err := s.requests.FindPending(ctx, listingID, buyerID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: no pending request for this listing", errs.ErrNotFound)
		}
		return nil, nil, err
	}
	return l, pr, nil
}

// Cancel implements PurchaseService.
func (s *PurchaseServiceImpl) Cancel(ctx context.Context, listingID, buyerID uuid.UUID) (err error) {
	defer func() { s.metrics.Transition("cancel", err) }()

	var req *model.PurchaseRequest
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		// Serializes with Approve/Reject on the same listing.
		if _, err := s.listings.GetForUpdate(ctx, listingID); err != nil {
			return err
		}
		pr, err := s.requests.FindPending(ctx, listingID, buyerID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("%w: no cancellable request", errs.ErrNotFound)
			}
			return err
		}
		if err := s.requests.DeletePending(ctx, pr.ID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("%w: request already decided", errs.ErrNotFound)
			}
			return err
		}
		req = pr
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifications != nil {
		if err := s.notifications.DeleteByReference(ctx, model.KindRequestReceived, req.ID); err != nil {
			s.log.Warn("remove request notification", zap.String("request_id", req.ID.String()), zap.Error(err))
		}
	}
	return nil
}

// ReverseSale implements PurchaseService.
func (s *PurchaseServiceImpl) ReverseSale(ctx context.Context, listingID, sellerID uuid.UUID) (err error) {
	defer func() { s.metrics.Transition("reverse_sale", err) }()

	var (
		listing *model.Listing
		sale    *model.Sale
	)
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.listings.GetForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if l.SellerID != sellerID {
			return fmt.Errorf("%w: only the seller can reverse a sale", errs.ErrForbidden)
		}
		if !l.Sold {
			return fmt.Errorf("%w: listing is not sold", errs.ErrInvalidOperation)
		}
		sl, err := s.sales.GetByListing(ctx, listingID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		if err := s.listings.SetSold(ctx, listingID, false); err != nil {
			return err
		}
		if sl != nil {
			if err := s.sales.DeleteByListing(ctx, listingID); err != nil {
				return err
			}
		}
		if _, err := s.requests.DeleteByListing(ctx, listingID); err != nil {
			return err
		}
		listing, sale = l, sl
		return nil
	})
	if err != nil {
		return err
	}

	if sale != nil {
		s.emit(ctx, model.Event{
			Kind:         model.KindSaleCancelled,
			TargetUserID: sale.BuyerID,
			ListingID:    listingID,
			Message:      fmt.Sprintf("The sale of %q was cancelled by the seller.", listing.Title),
		})
	}
	return nil
}

// Status implements PurchaseService.
func (s *PurchaseServiceImpl) Status(ctx context.Context, listingID, buyerID uuid.UUID) (model.RequestStatus, error) {
	st, err := s.requests.LatestStatus(ctx, listingID, buyerID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.StatusNone, nil
	}
	if err != nil {
		return "", err
	}
	return st, nil
}

// ListForListing implements PurchaseService.
func (s *PurchaseServiceImpl) ListForListing(ctx context.Context, listingID, sellerID uuid.UUID) ([]model.PurchaseRequestView, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.SellerID != sellerID {
		return nil, fmt.Errorf("%w: only the seller can list requests", errs.ErrForbidden)
	}
	return s.requests.ListByListing(ctx, listingID)
}

// emit publishes ev after the transition committed. Failures are logged only.
func (s *PurchaseServiceImpl) emit(ctx context.Context, ev model.Event) {
	id, err := uuid.NewV4()
	if err == nil {
		ev.ID = id
	}
	ev.OccurredAt = s.now().UTC()
	err = s.pub.Publish(ctx, ev)
	s.metrics.Published(string(ev.Kind), err)
	if err != nil {
		s.log.Warn("publish event",
			zap.String("kind", string(ev.Kind)),
			zap.String("listing_id", ev.ListingID.String()),
			zap.Error(err),
		)
	}
}

package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// RequestRepository stores purchase requests.
type RequestRepository interface {
	// Create inserts a new request.
	Create(ctx context.Context, r *model.PurchaseRequest) error
	// GetByID loads a request.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
	// FindActive returns the buyer's PENDING or APPROVED request for a listing.
	FindActive(ctx context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error)
	// FindPending returns the buyer's pending request for a listing; with
	// buyerID == uuid.Nil it returns the oldest pending request of the listing.
	FindPending(ctx context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error)
	// UpdateStatus sets the status of a single request.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus) error
	// RejectOtherPending rejects every pending request of the listing except keepID
	// and returns the rejected requests.
	RejectOtherPending(ctx context.Context, listingID, keepID uuid.UUID) ([]model.PurchaseRequest, error)
	// DeletePending removes a request only while it is still PENDING.
	DeletePending(ctx context.Context, id uuid.UUID) error
	// DeleteByListing removes every request of the listing and reports how many were removed.
	DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error)
	// LatestStatus returns the status of the buyer's most recent request for a listing.
	LatestStatus(ctx context.Context, listingID, buyerID uuid.UUID) (model.RequestStatus, error)
	// ListByListing returns requests for a listing, newest first.
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.PurchaseRequestView, error)
}

// SaleRepository stores completed sales.
type SaleRepository interface {
	// Create inserts a sale; at most one per listing.
	Create(ctx context.Context, s *model.Sale) error
	// GetByListing returns the sale of a listing.
	GetByListing(ctx context.Context, listingID uuid.UUID) (*model.Sale, error)
	// DeleteByListing removes the sale of a listing.
	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
	// ListByBuyer returns purchases made by a user, newest first.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.SaleView, error)
	// ListBySeller returns sales of a user's listings, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.SaleView, error)
}

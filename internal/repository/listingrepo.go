package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// ListingRepository stores products offered for sale.
type ListingRepository interface {
	// Create inserts a new listing.
	Create(ctx context.Context, l *model.Listing) error
	// GetByID loads a listing with its seller's username.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// GetForUpdate loads a listing and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// Search returns unsold listings matching the filter, newest first.
	Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	// Update overwrites the editable fields of a listing.
	Update(ctx context.Context, l *model.Listing) error
	// Delete removes a listing.
	Delete(ctx context.Context, id uuid.UUID) error
	// SetSold flips the sold flag.
	SetSold(ctx context.Context, id uuid.UUID, sold bool) error
}

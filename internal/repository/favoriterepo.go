package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// FavoriteRepository stores saved listings.
type FavoriteRepository interface {
	Create(ctx context.Context, f *model.Favorite) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Favorite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByUser returns favorites with their listings, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

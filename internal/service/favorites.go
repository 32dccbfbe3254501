package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// FavoriteService keeps the listings a user saved.
type FavoriteService interface {
	Add(ctx context.Context, userID, listingID uuid.UUID) (model.Favorite, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
	Remove(ctx context.Context, favoriteID, userID uuid.UUID) error
}

type FavoriteServiceImpl struct {
	favorites repository.FavoriteRepository
}

// NewFavoriteService constructs FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository) *FavoriteServiceImpl {
	return &FavoriteServiceImpl{favorites: favorites}
}

// Add saves a listing. Saving it twice is ErrConflict.
func (s *FavoriteServiceImpl) Add(ctx context.Context, userID, listingID uuid.UUID) (model.Favorite, error) {
	if listingID == uuid.Nil {
		return model.Favorite{}, fmt.Errorf("%w: listing id is required", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Favorite{}, err
	}
	f := model.Favorite{ID: id, UserID: userID, ListingID: listingID}
	if err := s.favorites.Create(ctx, &f); err != nil {
		return model.Favorite{}, err
	}
	return f, nil
}

func (s *FavoriteServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// Remove deletes one of the user's favorites.
func (s *FavoriteServiceImpl) Remove(ctx context.Context, favoriteID, userID uuid.UUID) error {
	f, err := s.favorites.GetByID(ctx, favoriteID)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return fmt.Errorf("%w: not your favorite", errs.ErrForbidden)
	}
	return s.favorites.Delete(ctx, favoriteID)
}

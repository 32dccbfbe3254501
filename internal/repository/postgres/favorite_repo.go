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

// FavoriteRepo implements FavoriteRepository using PostgreSQL.
type FavoriteRepo struct{ db *DB }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(db *DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Create inserts a favorite; a duplicate (user, listing) pair is ErrConflict.
func (r *FavoriteRepo) Create(ctx context.Context, f *model.Favorite) error {
	const q = `
INSERT INTO favorites (id, user_id, listing_id)
VALUES ($1, $2, $3)
RETURNING created_at`
	err := r.db.queryRow(ctx, q, f.ID, f.UserID, f.ListingID).Scan(&f.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return errs.ErrConflict
	case isForeignKeyViolation(err):
		return errs.ErrNotFound
	case err != nil:
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

// GetByID returns a favorite without its listing.
func (r *FavoriteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Favorite, error) {
	const q = `SELECT id, user_id, listing_id, created_at FROM favorites WHERE id=$1`
	var f model.Favorite
	if err := r.db.queryRow(ctx, q, id).Scan(&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return &f, nil
}

// Delete removes a favorite.
func (r *FavoriteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.exec(ctx, `DELETE FROM favorites WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's favorites with listing details, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	const q = `
SELECT f.id, f.user_id, f.listing_id, f.created_at,
       ` + listingColumns + `
FROM favorites f
JOIN listings l ON l.id = f.listing_id
JOIN users u ON u.id = l.seller_id
WHERE f.user_id=$1
ORDER BY f.created_at DESC`
	rows, err := r.db.query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []model.Favorite{}
	for rows.Next() {
		var (
			f    model.Favorite
			l    model.Listing
			cond string
		)
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt,
			&l.ID, &l.SellerID, &l.SellerUsername, &l.Title, &l.Description, &l.Price, &l.Category,
			&cond, &l.Location.City, &l.Location.District, &l.Location.Country, &l.Sold, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		l.Condition = model.Condition(cond)
		f.Listing = &l
		out = append(out, f)
	}
	return out, rows.Err()
}

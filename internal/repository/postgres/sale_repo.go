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

// SaleRepo implements SaleRepository using PostgreSQL.
type SaleRepo struct{ db *DB }

// NewSaleRepo constructs a sale repository.
func NewSaleRepo(db *DB) *SaleRepo { return &SaleRepo{db: db} }

// Create inserts a sale. UNIQUE(listing_id) makes a second sale an ErrConflict.
func (r *SaleRepo) Create(ctx context.Context, s *model.Sale) error {
	const q = `
INSERT INTO sales (id, listing_id, buyer_id)
VALUES ($1, $2, $3)
RETURNING created_at`
	err := r.db.queryRow(ctx, q, s.ID, s.ListingID, s.BuyerID).Scan(&s.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// GetByListing returns the sale of a listing.
func (r *SaleRepo) GetByListing(ctx context.Context, listingID uuid.UUID) (*model.Sale, error) {
	const q = `SELECT id, listing_id, buyer_id, created_at FROM sales WHERE listing_id=$1`
	var s model.Sale
	if err := r.db.queryRow(ctx, q, listingID).Scan(&s.ID, &s.ListingID, &s.BuyerID, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// DeleteByListing removes the sale of a listing.
func (r *SaleRepo) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	tag, err := r.db.exec(ctx, `DELETE FROM sales WHERE listing_id=$1`, listingID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

const saleViewQuery = `
SELECT s.id, s.listing_id, s.buyer_id, s.created_at,
       l.title, l.price::float8, l.seller_id, su.username, bu.username
FROM sales s
JOIN listings l ON l.id = s.listing_id
JOIN users su ON su.id = l.seller_id
JOIN users bu ON bu.id = s.buyer_id
`

// ListByBuyer returns purchases of a user, newest first.
func (r *SaleRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.SaleView, error) {
	return r.list(ctx, saleViewQuery+`WHERE s.buyer_id=$1
ORDER BY s.created_at DESC`, buyerID)
}

// ListBySeller returns sales of a user's listings, newest first.
func (r *SaleRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.SaleView, error) {
	return r.list(ctx, saleViewQuery+`WHERE l.seller_id=$1
ORDER BY s.created_at DESC`, sellerID)
}

func (r *SaleRepo) list(ctx context.Context, q string, userID uuid.UUID) ([]model.SaleView, error) {
	rows, err := r.db.query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	out := []model.SaleView{}
	for rows.Next() {
		var v model.SaleView
		if err := rows.Scan(
			&v.ID, &v.ListingID, &v.BuyerID, &v.CreatedAt,
			&v.ListingTitle, &v.Price, &v.SellerID, &v.SellerUsername, &v.BuyerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

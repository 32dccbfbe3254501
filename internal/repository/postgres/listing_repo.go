package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// ListingRepo implements ListingRepository using PostgreSQL.
type ListingRepo struct{ db *DB }

// NewListingRepo constructs a listing repository.
func NewListingRepo(db *DB) *ListingRepo { return &ListingRepo{db: db} }

const listingColumns = `l.id, l.seller_id, u.username, l.title, l.description, l.price::float8, l.category,
l.condition, l.city, l.district, l.country, l.sold, l.created_at, l.updated_at`

// Create inserts a listing row.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	const q = `
INSERT INTO listings (id, seller_id, title, description, price, category, condition, city, district, country, sold)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
RETURNING created_at, updated_at`
	err := r.db.queryRow(ctx, q,
		l.ID, l.SellerID, l.Title, l.Description, l.Price, l.Category, string(l.Condition),
		l.Location.City, l.Location.District, l.Location.Country,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	l.Sold = false
	return nil
}

// GetByID returns a listing with its seller's username.
func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	q := `SELECT ` + listingColumns + `
FROM listings l JOIN users u ON u.id = l.seller_id
WHERE l.id=$1`
	return scanListing(r.db.queryRow(ctx, q, id))
}

// GetForUpdate returns a listing and holds a row lock on it. Must run inside WithTx.
func (r *ListingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	q := `SELECT ` + listingColumns + `
FROM listings l JOIN users u ON u.id = l.seller_id
WHERE l.id=$1
FOR UPDATE OF l`
	return scanListing(r.db.queryRow(ctx, q, id))
}

// Search returns unsold listings matching the filter, newest first.
func (r *ListingRepo) Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	where := []string{"NOT l.sold"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + q + "%")
		where = append(where, fmt.Sprintf(
			"(l.title ILIKE %[1]s OR l.description ILIKE %[1]s OR l.category ILIKE %[1]s OR u.username ILIKE %[1]s)", p))
	}
	if f.Category != "" {
		where = append(where, "l.category = "+arg(f.Category))
	}
	if f.Condition != "" {
		where = append(where, "l.condition = "+arg(string(f.Condition)))
	}
	if f.MinPrice != nil {
		where = append(where, "l.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "l.price <= "+arg(*f.MaxPrice))
	}

	q := `SELECT ` + listingColumns + `
FROM listings l JOIN users u ON u.id = l.seller_id
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY l.created_at DESC`

	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Update overwrites editable fields and bumps updated_at.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	const q = `
UPDATE listings
SET title=$2, description=$3, price=$4, category=$5, condition=$6, city=$7, district=$8, country=$9, updated_at=now()
WHERE id=$1
RETURNING updated_at`
	err := r.db.queryRow(ctx, q,
		l.ID, l.Title, l.Description, l.Price, l.Category, string(l.Condition),
		l.Location.City, l.Location.District, l.Location.Country,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// Delete removes a listing row; dependent rows cascade.
func (r *ListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.exec(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetSold flips the sold flag.
func (r *ListingRepo) SetSold(ctx context.Context, id uuid.UUID, sold bool) error {
	tag, err := r.db.exec(ctx, `UPDATE listings SET sold=$2, updated_at=now() WHERE id=$1`, id, sold)
	if err != nil {
		return fmt.Errorf("set listing sold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		l    model.Listing
		cond string
	)
	err := row.Scan(
		&l.ID, &l.SellerID, &l.SellerUsername, &l.Title, &l.Description, &l.Price, &l.Category,
		&cond, &l.Location.City, &l.Location.District, &l.Location.Country, &l.Sold, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	l.Condition = model.Condition(cond)
	return &l, nil
}

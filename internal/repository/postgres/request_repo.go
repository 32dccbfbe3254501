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

// RequestRepo implements RequestRepository using PostgreSQL.
type RequestRepo struct{ db *DB }

// NewRequestRepo constructs a purchase request repository.
func NewRequestRepo(db *DB) *RequestRepo { return &RequestRepo{db: db} }

const requestColumns = `id, listing_id, buyer_id, message, status, created_at, updated_at`

// Create inserts a request. A second active request for the same pair hits the
// partial unique index and is reported as ErrConflict.
func (r *RequestRepo) Create(ctx context.Context, pr *model.PurchaseRequest) error {
	const q = `
INSERT INTO purchase_requests (id, listing_id, buyer_id, message, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
	err := r.db.queryRow(ctx, q, pr.ID, pr.ListingID, pr.BuyerID, pr.Message, string(pr.Status)).
		Scan(&pr.CreatedAt, &pr.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return errs.ErrConflict
	case isForeignKeyViolation(err):
		return errs.ErrNotFound
	case err != nil:
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// GetByID returns a request.
func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id=$1`
	return scanRequest(r.db.queryRow(ctx, q, id))
}

// FindActive returns the buyer's PENDING or APPROVED request.
func (r *RequestRepo) FindActive(ctx context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error) {
	const q = `SELECT ` + requestColumns + `
FROM purchase_requests
WHERE listing_id=$1 AND buyer_id=$2 AND status IN ('PENDING', 'APPROVED')
LIMIT 1`
	return scanRequest(r.db.queryRow(ctx, q, listingID, buyerID))
}

// FindPending returns the buyer's pending request, or the oldest pending one
// when buyerID is uuid.Nil.
func (r *RequestRepo) FindPending(ctx context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error) {
	if buyerID == uuid.Nil {
		const q = `SELECT ` + requestColumns + `
FROM purchase_requests
WHERE listing_id=$1 AND status='PENDING'
ORDER BY created_at ASC
LIMIT 1`
		return scanRequest(r.db.queryRow(ctx, q, listingID))
	}
	const q = `SELECT ` + requestColumns + `
FROM purchase_requests
WHERE listing_id=$1 AND buyer_id=$2 AND status='PENDING'
LIMIT 1`
	return scanRequest(r.db.queryRow(ctx, q, listingID, buyerID))
}

// UpdateStatus sets the status of one request.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus) error {
	const q = `UPDATE purchase_requests SET status=$2, updated_at=now() WHERE id=$1`
	tag, err := r.db.exec(ctx, q, id, string(status))
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// RejectOtherPending rejects sibling pending requests and returns them.
func (r *RequestRepo) RejectOtherPending(ctx context.Context, listingID, keepID uuid.UUID) ([]model.PurchaseRequest, error) {
	const q = `
UPDATE purchase_requests
SET status='REJECTED', updated_at=now()
WHERE listing_id=$1 AND id<>$2 AND status='PENDING'
RETURNING ` + requestColumns
	rows, err := r.db.query(ctx, q, listingID, keepID)
	if err != nil {
		return nil, fmt.Errorf("reject pending requests: %w", err)
	}
	defer rows.Close()

	out := []model.PurchaseRequest{}
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pr)
	}
	return out, rows.Err()
}

// DeletePending removes a request that is still PENDING. A request decided
// in the meantime is left untouched and reported as ErrNotFound.
func (r *RequestRepo) DeletePending(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.exec(ctx, `DELETE FROM purchase_requests WHERE id=$1 AND status='PENDING'`, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteByListing removes all requests of a listing.
func (r *RequestRepo) DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	tag, err := r.db.exec(ctx, `DELETE FROM purchase_requests WHERE listing_id=$1`, listingID)
	if err != nil {
		return 0, fmt.Errorf("delete listing requests: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LatestStatus returns the status of the buyer's newest request.
func (r *RequestRepo) LatestStatus(ctx context.Context, listingID, buyerID uuid.UUID) (model.RequestStatus, error) {
	const q = `
SELECT status FROM purchase_requests
WHERE listing_id=$1 AND buyer_id=$2
ORDER BY created_at DESC
LIMIT 1`
	var st string
	if err := r.db.queryRow(ctx, q, listingID, buyerID).Scan(&st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", fmt.Errorf("request status: %w", err)
	}
	return model.RequestStatus(st), nil
}

// ListByListing returns requests with buyer usernames, newest first.
func (r *RequestRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.PurchaseRequestView, error) {
	const q = `
SELECT r.id, r.listing_id, r.buyer_id, r.message, r.status, r.created_at, r.updated_at, u.username
FROM purchase_requests r JOIN users u ON u.id = r.buyer_id
WHERE r.listing_id=$1
ORDER BY r.created_at DESC`
	rows, err := r.db.query(ctx, q, listingID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []model.PurchaseRequestView{}
	for rows.Next() {
		var (
			v  model.PurchaseRequestView
			st string
		)
		if err := rows.Scan(&v.ID, &v.ListingID, &v.BuyerID, &v.Message, &st, &v.CreatedAt, &v.UpdatedAt, &v.BuyerUsername); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		v.Status = model.RequestStatus(st)
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (*model.PurchaseRequest, error) {
	var (
		pr model.PurchaseRequest
		st string
	)
	if err := row.Scan(&pr.ID, &pr.ListingID, &pr.BuyerID, &pr.Message, &st, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}
	pr.Status = model.RequestStatus(st)
	return &pr, nil
}

// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents a marketplace account. Passwords are never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	Email     string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	CreatedAt time.Time
}

// Condition is the wear level of a listed product.
type Condition string

const (
	ConditionLightlyUsed Condition = "lightly_used"
	ConditionHeavilyUsed Condition = "heavily_used"
)

// Valid reports whether c is one of the accepted conditions.
func (c Condition) Valid() bool {
	return c == ConditionLightlyUsed || c == ConditionHeavilyUsed
}

// Location is where the product can be picked up.
type Location struct {
	City     string
	District string
	Country  string
}

// Listing is a product offered for sale by a seller.
// A sold listing has exactly one Sale and no pending requests.
type Listing struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	SellerUsername string // filled by read queries only
	Title          string
	Description    string
	Price          float64
	Category       string
	Condition      Condition
	Location       Location
	Sold           bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListingInput carries user-editable listing fields after validation.
type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   Condition
	Location    Location
}

// ListingFilter narrows a listing search. Zero values mean "no constraint".
type ListingFilter struct {
	Query     string
	Category  string
	Condition Condition
	MinPrice  *float64
	MaxPrice  *float64
}

// RequestStatus is the lifecycle state of a purchase request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"

	// StatusNone is reported when a buyer has no request for a listing. It is never stored.
	StatusNone RequestStatus = "NONE"
)

// Active reports whether the status blocks a new request from the same buyer.
func (s RequestStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// PurchaseRequest is a buyer's intent to buy a listing, pending seller decision.
type PurchaseRequest struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	Message   string
	Status    RequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PurchaseRequestView is a request enriched with the buyer's username for the seller.
type PurchaseRequestView struct {
	PurchaseRequest
	BuyerUsername string
}

// Sale is the committed record of a completed transaction. One per listing.
type Sale struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	CreatedAt time.Time
}

// SaleView is a sale joined with listing and counterpart details.
type SaleView struct {
	Sale
	ListingTitle   string
	Price          float64
	SellerID       uuid.UUID
	SellerUsername string
	BuyerUsername  string
}

// Favorite marks a listing as saved by a user.
type Favorite struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ListingID uuid.UUID
	CreatedAt time.Time
	Listing   *Listing // populated by list queries
}

// NotificationKind tags why a notification was produced.
type NotificationKind string

const (
	KindRequestReceived NotificationKind = "request_received"
	KindRequestApproved NotificationKind = "request_approved"
	KindRequestRejected NotificationKind = "request_rejected"
	KindSaleCancelled   NotificationKind = "sale_cancelled"
)

// Notification is a message shown to a user about workflow activity.
type Notification struct {
	ID          uuid.UUID
	UserID      uuid.UUID // target user
	Kind        NotificationKind
	Message     string
	ReferenceID uuid.UUID // purchase request or listing the notice is about; may be Nil
	Read        bool
	CreatedAt   time.Time
}

// Event is a domain event emitted after a workflow transition commits.
// Consumers turn events into notifications.
type Event struct {
	ID           uuid.UUID        `json:"id"`
	Kind         NotificationKind `json:"kind"`
	TargetUserID uuid.UUID        `json:"target_user_id"`
	ListingID    uuid.UUID        `json:"listing_id"`
	RequestID    uuid.UUID        `json:"request_id"`
	Message      string           `json:"message"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 4000
)

// ListingDraft is listing input as submitted by a client, before parsing.
type ListingDraft struct {
	Title       string
	Description string
	Price       string
	Category    string
	Condition   string
	City        string
	District    string
	Country     string
}

// ListingService manages listings owned by sellers.
type ListingService interface {
	Create(ctx context.Context, sellerID uuid.UUID, d ListingDraft) (model.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (model.Listing, error)
	Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	// Update replaces the editable fields. Only the seller may update, and only while unsold.
	Update(ctx context.Context, id, sellerID uuid.UUID, d ListingDraft) (model.Listing, error)
	// Delete removes an unsold listing of the seller.
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
}

type ListingServiceImpl struct {
	uow      repository.UnitOfWork
	listings repository.ListingRepository
}

// NewListingService constructs ListingService.
func NewListingService(uow repository.UnitOfWork, listings repository.ListingRepository) *ListingServiceImpl {
	return &ListingServiceImpl{uow: uow, listings: listings}
}

// Create validates d and stores a new unsold listing.
func (s *ListingServiceImpl) Create(ctx context.Context, sellerID uuid.UUID, d ListingDraft) (model.Listing, error) {
	in, err := ParseListing(d)
	if err != nil {
		return model.Listing{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Listing{}, err
	}
	l := model.Listing{ID: id, SellerID: sellerID}
	apply(&l, in)
	if err := s.listings.Create(ctx, &l); err != nil {
		return model.Listing{}, err
	}
	return l, nil
}

// Get returns one listing.
func (s *ListingServiceImpl) Get(ctx context.Context, id uuid.UUID) (model.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return model.Listing{}, err
	}
	return *l, nil
}

// Search returns unsold listings matching f, newest first.
func (s *ListingServiceImpl) Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	if f.Condition != "" && !f.Condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", errs.ErrInvalidFormat, f.Condition)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fmt.Errorf("%w: min price above max price", errs.ErrValidation)
	}
	return s.listings.Search(ctx, f)
}

// Update implements ListingService.
func (s *ListingServiceImpl) Update(ctx context.Context, id, sellerID uuid.UUID, d ListingDraft) (model.Listing, error) {
	in, err := ParseListing(d)
	if err != nil {
		return model.Listing{}, err
	}
	var out model.Listing
	err = s.uow.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.ownedUnsold(ctx, id, sellerID)
		if err != nil {
			return err
		}
		apply(l, in)
		if err := s.listings.Update(ctx, l); err != nil {
			return err
		}
		out = *l
		return nil
	})
	return out, err
}

// Delete implements ListingService.
func (s *ListingServiceImpl) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	return s.uow.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedUnsold(ctx, id, sellerID); err != nil {
			return err
		}
		return s.listings.Delete(ctx, id)
	})
}

func (s *ListingServiceImpl) ownedUnsold(ctx context.Context, id, sellerID uuid.UUID) (*model.Listing, error) {
	l, err := s.listings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != sellerID {
		return nil, fmt.Errorf("%w: not your listing", errs.ErrForbidden)
	}
	if l.Sold {
		return nil, fmt.Errorf("%w: listing already sold", errs.ErrInvalidOperation)
	}
	return l, nil
}

func apply(l *model.Listing, in model.ListingInput) {
	l.Title = in.Title
	l.Description = in.Description
	l.Price = in.Price
	l.Category = in.Category
	l.Condition = in.Condition
	l.Location = in.Location
}

var priceRe = regexp.MustCompile(`^\d{1,10}([.,]\d{1,2})?$`)

// ParsePrice accepts "1250", "1250.5" or "1250,50". At most two decimals.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !priceRe.MatchString(raw) {
		return 0, fmt.Errorf("%w: price must be a number with at most two decimals", errs.ErrInvalidFormat)
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price: %v", errs.ErrInvalidFormat, err)
	}
	return v, nil
}

// ParseListing validates a draft. Missing fields are ErrValidation, bad
// values ErrInvalidFormat.
func ParseListing(d ListingDraft) (model.ListingInput, error) {
	in := model.ListingInput{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Condition:   model.Condition(strings.TrimSpace(d.Condition)),
		Location: model.Location{
			City:     strings.TrimSpace(d.City),
			District: strings.TrimSpace(d.District),
			Country:  strings.TrimSpace(d.Country),
		},
	}

	var missing []string
	for _, f := range []struct{ name, v string }{
		{"title", in.Title},
		{"price", strings.TrimSpace(d.Price)},
		{"category", in.Category},
		{"condition", string(in.Condition)},
		{"city", in.Location.City},
		{"district", in.Location.District},
		{"country", in.Location.Country},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.ListingInput{}, fmt.Errorf("%w: missing %s", errs.ErrValidation, strings.Join(missing, ", "))
	}

	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return model.ListingInput{}, fmt.Errorf("%w: title longer than %d characters", errs.ErrValidation, maxTitleLen)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return model.ListingInput{}, fmt.Errorf("%w: description longer than %d characters", errs.ErrValidation, maxDescriptionLen)
	}
	if !in.Condition.Valid() {
		return model.ListingInput{}, fmt.Errorf("%w: condition must be %q or %q",
			errs.ErrInvalidFormat, model.ConditionLightlyUsed, model.ConditionHeavilyUsed)
	}
	price, err := ParsePrice(d.Price)
	if err != nil {
		return model.ListingInput{}, err
	}
	in.Price = price
	return in, nil
}

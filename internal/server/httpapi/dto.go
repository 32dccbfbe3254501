package httpapi

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

type userDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(u model.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type locationDTO struct {
	City     string `json:"city"`
	District string `json:"district"`
	Country  string `json:"country"`
}

type listingDTO struct {
	ID             uuid.UUID   `json:"id"`
	SellerID       uuid.UUID   `json:"seller_id"`
	SellerUsername string      `json:"seller_username,omitempty"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          float64     `json:"price"`
	Category       string      `json:"category"`
	Condition      string      `json:"condition"`
	Location       locationDTO `json:"location"`
	Sold           bool        `json:"sold"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func toListing(l model.Listing) listingDTO {
	return listingDTO{
		ID:             l.ID,
		SellerID:       l.SellerID,
		SellerUsername: l.SellerUsername,
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		Category:       l.Category,
		Condition:      string(l.Condition),
		Location:       locationDTO{City: l.Location.City, District: l.Location.District, Country: l.Location.Country},
		Sold:           l.Sold,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toListings(in []model.Listing) []listingDTO {
	out := make([]listingDTO, 0, len(in))
	for _, l := range in {
		out = append(out, toListing(l))
	}
	return out
}

type requestDTO struct {
	ID            uuid.UUID `json:"id"`
	ListingID     uuid.UUID `json:"listing_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	BuyerUsername string    `json:"buyer_username,omitempty"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toRequest(r model.PurchaseRequest) requestDTO {
	return requestDTO{
		ID:        r.ID,
		ListingID: r.ListingID,
		BuyerID:   r.BuyerID,
		Message:   r.Message,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRequestViews(in []model.PurchaseRequestView) []requestDTO {
	out := make([]requestDTO, 0, len(in))
	for _, v := range in {
		d := toRequest(v.PurchaseRequest)
		d.BuyerUsername = v.BuyerUsername
		out = append(out, d)
	}
	return out
}

type saleDTO struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	ListingTitle   string    `json:"listing_title,omitempty"`
	Price          float64   `json:"price,omitempty"`
	SellerID       uuid.UUID `json:"seller_id,omitempty"`
	SellerUsername string    `json:"seller_username,omitempty"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	BuyerUsername  string    `json:"buyer_username,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toSale(s model.Sale) saleDTO {
	return saleDTO{ID: s.ID, ListingID: s.ListingID, BuyerID: s.BuyerID, CreatedAt: s.CreatedAt}
}

func toSaleViews(in []model.SaleView) []saleDTO {
	out := make([]saleDTO, 0, len(in))
	for _, v := range in {
		d := toSale(v.Sale)
		d.ListingTitle = v.ListingTitle
		d.Price = v.Price
		d.SellerID = v.SellerID
		d.SellerUsername = v.SellerUsername
		d.BuyerUsername = v.BuyerUsername
		out = append(out, d)
	}
	return out
}

type favoriteDTO struct {
	ID        uuid.UUID   `json:"id"`
	ListingID uuid.UUID   `json:"listing_id"`
	CreatedAt time.Time   `json:"created_at"`
	Listing   *listingDTO `json:"listing,omitempty"`
}

func toFavorite(f model.Favorite) favoriteDTO {
	d := favoriteDTO{ID: f.ID, ListingID: f.ListingID, CreatedAt: f.CreatedAt}
	if f.Listing != nil {
		l := toListing(*f.Listing)
		d.Listing = &l
	}
	return d
}

type notificationDTO struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Message     string     `json:"message"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	Read        bool       `json:"read"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toNotification(n model.Notification) notificationDTO {
	d := notificationDTO{ID: n.ID, Kind: string(n.Kind), Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt}
	if n.ReferenceID != uuid.Nil {
		ref := n.ReferenceID
		d.ReferenceID = &ref
	}
	return d
}

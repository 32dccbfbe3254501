package httpapi

import (
	"fmt"
	"net/http"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/service"
)

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       any    `json:"price"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	City        string `json:"city"`
	District    string `json:"district"`
	Country     string `json:"country"`
}

// draft converts the body into a service draft. Price may arrive as a
// JSON number or a string such as "12,50".
func (l listingRequest) draft() (service.ListingDraft, error) {
	var price string
	switch v := l.Price.(type) {
	case nil:
	case string:
		price = v
	case float64:
		price = fmt.Sprintf("%.2f", v)
	default:
		return service.ListingDraft{}, fmt.Errorf("%w: price", errs.ErrInvalidFormat)
	}
	return service.ListingDraft{
		Title:       l.Title,
		Description: l.Description,
		Price:       price,
		Category:    l.Category,
		Condition:   l.Condition,
		City:        l.City,
		District:    l.District,
		Country:     l.Country,
	}, nil
}

func (a *API) searchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.ListingFilter{
		Query:     q.Get("q"),
		Category:  q.Get("category"),
		Condition: model.Condition(q.Get("condition")),
	}
	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := service.ParsePrice(raw)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		*dst = &v
	}

	items, err := a.svc.Listings.Search(r.Context(), f)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "listings", toListings(items))
}

func (a *API) getListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	l, err := a.svc.Listings.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "listing", toListing(l))
}

func (a *API) createListing(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	l, err := a.svc.Listings.Create(r.Context(), uid, d)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "listing created", toListing(l))
}

func (a *API) updateListing(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	l, err := a.svc.Listings.Update(r.Context(), id, uid, d)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "listing updated", toListing(l))
}

func (a *API) deleteListing(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.svc.Listings.Delete(r.Context(), id, uid); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "listing deleted", nil)
}

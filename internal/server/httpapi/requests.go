package httpapi

import (
	"net/http"

	"github.com/gofrs/uuid/v5"
)

type purchaseRequestBody struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
}

func (a *API) createRequest(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var body purchaseRequestBody
	if err := decodeJSON(r, &body); err != nil {
		a.fail(w, r, err)
		return
	}
	listingID, err := parseID(body.ListingID, "listing_id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	pr, err := a.svc.Purchases.Create(r.Context(), listingID, uid, body.Message)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "purchase request sent", toRequest(pr))
}

func (a *API) listRequests(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	items, err := a.svc.Purchases.ListForListing(r.Context(), listingID, uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "purchase requests", toRequestViews(items))
}

func (a *API) requestStatus(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	st, err := a.svc.Purchases.Status(r.Context(), listingID, uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "request status", map[string]string{"status": string(st)})
}

func (a *API) cancelRequest(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	if err := a.svc.Purchases.Cancel(r.Context(), listingID, uid); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "purchase request cancelled", nil)
}

// userAndListing resolves the caller and the {listingID} path parameter.
// On failure the error response has already been written.
func (a *API) userAndListing(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	listingID, err := pathID(r, "listingID")
	if err != nil {
		a.fail(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return uid, listingID, true
}

// buyerParam reads the optional ?buyer= selector. Absent means Nil.
func buyerParam(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("buyer")
	if raw == "" {
		return uuid.Nil, nil
	}
	return parseID(raw, "buyer")
}

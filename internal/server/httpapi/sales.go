package httpapi

import "net/http"

func (a *API) approve(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	buyer, err := buyerParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sale, err := a.svc.Purchases.Approve(r.Context(), listingID, uid, buyer)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "sale approved", toSale(sale))
}

func (a *API) reject(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	buyer, err := buyerParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.svc.Purchases.Reject(r.Context(), listingID, uid, buyer); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "purchase request rejected", nil)
}

func (a *API) reverseSale(w http.ResponseWriter, r *http.Request) {
	uid, listingID, ok := a.userAndListing(w, r)
	if !ok {
		return
	}
	if err := a.svc.Purchases.ReverseSale(r.Context(), listingID, uid); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "sale cancelled", nil)
}

func (a *API) purchases(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items, err := a.svc.Sales.Purchases(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "purchases", toSaleViews(items))
}

func (a *API) sold(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items, err := a.svc.Sales.SalesOf(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "sales", toSaleViews(items))
}

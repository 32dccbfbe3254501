package httpapi

import "net/http"

type favoriteRequest struct {
	ListingID string `json:"listing_id"`
}

func (a *API) listFavorites(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items, err := a.svc.Favorites.List(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]favoriteDTO, 0, len(items))
	for _, f := range items {
		out = append(out, toFavorite(f))
	}
	writeOK(w, http.StatusOK, "favorites", out)
}

func (a *API) addFavorite(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	listingID, err := parseID(req.ListingID, "listing_id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	f, err := a.svc.Favorites.Add(r.Context(), uid, listingID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "added to favorites", toFavorite(f))
}

func (a *API) removeFavorite(w http.ResponseWriter, r *http.Request) {
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
	if err := a.svc.Favorites.Remove(r.Context(), id, uid); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "removed from favorites", nil)
}

// Package httpapi exposes the marketplace services over JSON/HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/metrics"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/service"
)

// Services are the application services served by the API.
type Services struct {
	Auth          service.AuthService
	Listings      service.ListingService
	Purchases     service.PurchaseService
	Sales         service.SalesService
	Favorites     service.FavoriteService
	Notifications service.NotificationService
}

// API holds handler dependencies.
type API struct {
	svc Services
	log *zap.Logger
}

// NewRouter builds the HTTP handler. Routes marked auth require a bearer
// token signed with jwtSecret.
func NewRouter(svc Services, jwtSecret []byte, log *zap.Logger, m *metrics.Metrics) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	a := &API{svc: svc, log: log.Named("http")}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(a.log, m))
	r.Use(Recover(a.log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", a.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", a.register)
		r.Post("/users/login", a.login)
		r.Get("/listings", a.searchListings)
		r.Get("/listings/{id}", a.getListing)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(jwtSecret))

			r.Get("/users/me", a.profile)
			r.Put("/users/me/password", a.changePassword)
			r.Put("/users/me/email", a.changeEmail)
			r.Put("/users/me/username", a.changeUsername)

			r.Post("/listings", a.createListing)
			r.Put("/listings/{id}", a.updateListing)
			r.Delete("/listings/{id}", a.deleteListing)

			r.Post("/requests", a.createRequest)
			r.Get("/requests/listing/{listingID}", a.listRequests)
			r.Get("/requests/status/{listingID}", a.requestStatus)
			r.Delete("/requests/{listingID}", a.cancelRequest)

			r.Put("/sales/approve/{listingID}", a.approve)
			r.Put("/sales/reject/{listingID}", a.reject)
			r.Put("/sales/cancel/{listingID}", a.reverseSale)
			r.Get("/sales/purchases", a.purchases)
			r.Get("/sales/sold", a.sold)

			r.Get("/favorites", a.listFavorites)
			r.Post("/favorites", a.addFavorite)
			r.Delete("/favorites/{id}", a.removeFavorite)

			r.Get("/notifications", a.listNotifications)
			r.Get("/notifications/unread-count", a.unreadCount)
			r.Put("/notifications/read-all", a.markAllRead)
			r.Put("/notifications/{id}/read", a.markRead)
		})
	})
	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

// internal/app/features/api/routes.go
package api

import "github.com/go-chi/chi/v5"

// Routes mounts the JSON API. Typically: r.Mount("/api", api.Routes(h)).
// These endpoints authenticate with bearer tokens, not browser sessions,
// and are mounted outside the CSRF-protected router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Group(func(pr chi.Router) {
		pr.Use(h.requireToken)
		pr.Post("/sslcommerz/create-payment", h.HandleCreatePayment)
		pr.Post("/payments/update-status", h.HandleUpdateStatus)
	})
	return r
}

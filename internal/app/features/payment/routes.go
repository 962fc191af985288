// internal/app/features/payment/routes.go
package payment

import (
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member payment pages.
// Typically: r.Mount("/dashboard/payment", payment.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServePayment)
		pr.Post("/", h.HandleManualPost)
		pr.Post("/checkout", h.HandleCheckout)
		pr.Get("/success", h.ServeSuccess)
		pr.Get("/fail", h.ServeFail)
		pr.Get("/cancel", h.ServeCancel)
	})
	return r
}

// IPNRoutes mounts the gateway notification endpoint. It is mounted outside
// the CSRF-protected browser router because the gateway posts directly.
func IPNRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleIPN)
	return r
}

// internal/app/features/payments/routes.go
package payments

import (
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin payment pages.
// Typically: r.Mount("/admin/payments", payments.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.ServeList)
		pr.Post("/{id}/verify", h.HandleVerify)
		pr.Post("/{id}/fail", h.HandleFail)
	})
	return r
}

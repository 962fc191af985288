// internal/app/features/admin/routes.go
package admin

import (
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin overview and settings pages.
// Typically: r.Mount("/admin", admin.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.ServeOverview)
		pr.Get("/settings", h.ServeSettings)
		pr.Post("/settings", h.HandleSettingsPost)
	})
	return r
}

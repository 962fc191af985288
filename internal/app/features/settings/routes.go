// internal/app/features/settings/routes.go
package settings

import (
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account settings pages.
// Typically: r.Mount("/dashboard/settings", settings.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeSettings)
		pr.Post("/password", h.HandlePasswordPost)
	})
	return r
}

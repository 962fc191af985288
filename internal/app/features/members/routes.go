// internal/app/features/members/routes.go
package members

import (
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin member management pages.
// Typically: r.Mount("/admin/users", members.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.ServeList)
		pr.Get("/export.csv", h.ServeExportCSV)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})
	return r
}

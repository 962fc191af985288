// internal/app/features/forgotpassword/routes.go
package forgotpassword

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRequest)
	r.Post("/", h.HandleRequestPost)
	r.Get("/reset", h.ServeReset)
	r.Post("/reset", h.HandleResetPost)
	return r
}

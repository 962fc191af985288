// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"

	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	ContactEmail string
}

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings := viewdata.GetSettings(ctx, h.DB)

	data := pageData{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Contact", "/"),
		ContactEmail: settings.ContactEmail,
	}

	templates.Render(w, r, "contact", data)
}

// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/authutil"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the member account settings page.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Users:    userstore.New(db),
	}
}

type pageData struct {
	viewdata.BaseVM

	Email         string
	AuthMethod    string
	PasswordRules string
	Changed       bool
	FormError     string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/settings                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.renderSettings(w, r, su, r.URL.Query().Get("changed") == "1", "")
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, su *auth.SessionUser, changed bool, formErr string) {
	authMethod := models.AuthMethodPassword

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if id, err := primitive.ObjectIDFromHex(su.ID); err == nil {
		if u, err := h.Users.GetByID(ctx, id); err == nil {
			authMethod = u.AuthMethod
		}
	}

	data := pageData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Account Settings", "/dashboard"),
		Email:         su.Email,
		AuthMethod:    authMethod,
		PasswordRules: authutil.PasswordRules(),
		Changed:       changed,
		FormError:     formErr,
	}
	templates.Render(w, r, "account_settings", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/settings/password                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePasswordPost(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse password form", err,
			"The submitted form could not be read.", "/dashboard/settings")
		return
	}

	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for password change", err,
			"We could not load your account. Please try again.", "/dashboard")
		return
	}

	if u.AuthMethod != models.AuthMethodPassword || u.PasswordHash == nil {
		h.renderSettings(w, r, su, false,
			"Your account signs in with Google, so there is no password to change.")
		return
	}

	current := r.PostFormValue("current_password")
	if !authutil.CheckPassword(*u.PasswordHash, current) {
		h.renderSettings(w, r, su, false, "Your current password is incorrect.")
		return
	}

	newPassword := r.PostFormValue("new_password")
	if err := authutil.ValidatePassword(newPassword); err != nil {
		h.renderSettings(w, r, su, false, err.Error())
		return
	}
	if newPassword != r.PostFormValue("confirm_password") {
		h.renderSettings(w, r, su, false, "The new passwords do not match.")
		return
	}

	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash new password", err,
			"We could not change your password. Please try again.", "/dashboard/settings")
		return
	}
	if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "store new password", err,
			"We could not change your password. Please try again.", "/dashboard/settings")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, id)

	http.Redirect(w, r, "/dashboard/settings?changed=1", http.StatusSeeOther)
}

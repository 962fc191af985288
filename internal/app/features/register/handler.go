// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/authutil"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Users      *userstore.Store
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Users:      userstore.New(db),
	}
}

type registerFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	Phone         string
	PasswordRules string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Join us", "/"),
		PasswordRules: authutil.PasswordRules(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	fullName := normalize.Name(r.FormValue("full_name"))
	email := normalize.Email(r.FormValue("email"))
	phone := normalize.Phone(r.FormValue("phone"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if fullName == "" {
		h.renderFormWithError(w, r, "Please enter your full name.", fullName, email, phone)
		return
	}
	if err := authutil.ValidateEmail(email); err != nil {
		h.renderFormWithError(w, r, "Please enter a valid email address.", fullName, email, phone)
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		h.renderFormWithError(w, r, err.Error(), fullName, email, phone)
		return
	}
	if password != confirm {
		h.renderFormWithError(w, r, "Passwords do not match.", fullName, email, phone)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "A server error occurred.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: &hash,
		AuthMethod:   models.AuthMethodPassword,
		Role:         models.RoleMember,
		Approved:     false,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.renderFormWithError(w, r, "An account with that email already exists. Try signing in instead.", fullName, email, phone)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "A server error occurred.", "/register")
		return
	}

	h.AuditLog.Registered(ctx, r, u.ID, u.AuthMethod, u.Email)

	// New members go straight to their dashboard, which shows the
	// pending-approval state.
	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("save session after registration failed", zap.Error(err), zap.String("email", email))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, fullName, email, phone string) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Join us", "/"),
		Error:         msg,
		FullName:      fullName,
		Email:         email,
		Phone:         phone,
		PasswordRules: authutil.PasswordRules(),
	})
}

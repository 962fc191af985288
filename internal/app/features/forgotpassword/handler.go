// internal/app/features/forgotpassword/handler.go
package forgotpassword

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/store/passwordreset"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/authutil"
	"github.com/alumhub/alumhub/internal/app/system/mailer"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/ratelimit"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Mailer   *mailer.Mailer
	Users    *userstore.Store
	Resets   *passwordreset.Store
	Limiter  *ratelimit.Limiter
	BaseURL  string
}

func NewHandler(
	db *mongo.Database,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	mail *mailer.Mailer,
	baseURL string,
	resetExpiry time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Mailer:   mail,
		Users:    userstore.New(db),
		Resets:   passwordreset.New(db, resetExpiry),
		Limiter:  ratelimit.New(5, 15*time.Minute),
		BaseURL:  baseURL,
	}
}

type requestFormData struct {
	viewdata.BaseVM
	Error string
	Email string
	Sent  bool
}

type resetFormData struct {
	viewdata.BaseVM
	Error         string
	UserID        string
	Token         string
	PasswordRules string
	Done          bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /forgot-password                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRequest(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "forgot_password", requestFormData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /forgot-password                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRequestPost always renders the same "sent" confirmation whether
// or not the email matches an account, so the form cannot be used to
// probe which addresses are registered.
func (h *Handler) HandleRequestPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/forgot-password")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	if email == "" {
		templates.Render(w, r, "forgot_password", requestFormData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
			Error:  "Please enter your email address.",
		})
		return
	}

	if !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		templates.Render(w, r, "forgot_password", requestFormData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
			Error:  "Too many reset requests. Please wait a while and try again.",
			Email:  email,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil && u.AuthMethod == models.AuthMethodPassword {
		h.sendResetEmail(ctx, r, u)
	} else if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		h.Log.Error("reset request lookup failed", zap.Error(err))
	}

	templates.Render(w, r, "forgot_password", requestFormData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
		Sent:   true,
		Email:  email,
	})
}

func (h *Handler) sendResetEmail(ctx context.Context, r *http.Request, u *models.User) {
	token, err := h.Resets.Create(ctx, u.ID, u.Email)
	if err != nil {
		h.Log.Error("create reset token failed", zap.Error(err), zap.String("email", u.Email))
		return
	}

	link := fmt.Sprintf("%s/forgot-password/reset?uid=%s&token=%s",
		h.BaseURL, u.ID.Hex(), url.QueryEscape(token))

	siteName := viewdata.GetSiteName(ctx, h.DB)
	email := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  siteName,
		Name:      u.FullName,
		ResetLink: link,
		ExpiresIn: formatExpiry(h.Resets.Expiry()),
	})
	email.To = u.Email

	if err := h.Mailer.Send(email); err != nil {
		h.Log.Error("send reset email failed", zap.Error(err), zap.String("email", u.Email))
		return
	}

	h.AuditLog.PasswordResetRequested(ctx, r, u.ID, u.Email)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /forgot-password/reset                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeReset(w http.ResponseWriter, r *http.Request) {
	uid := query.Get(r, "uid")
	token := query.Get(r, "token")
	if uid == "" || token == "" {
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Choose a new password", "/login"),
		UserID:        uid,
		Token:         token,
		PasswordRules: authutil.PasswordRules(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /forgot-password/reset                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleResetPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/forgot-password")
		return
	}

	uid := r.FormValue("uid")
	token := r.FormValue("token")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil || token == "" {
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}

	if err := authutil.ValidatePassword(password); err != nil {
		h.renderResetWithError(w, r, err.Error(), uid, token)
		return
	}
	if password != confirm {
		h.renderResetWithError(w, r, "Passwords do not match.", uid, token)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Resets.Consume(ctx, userID, token); err != nil {
		h.renderResetWithError(w, r, "This reset link is invalid or has expired. Request a new one.", uid, token)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "A server error occurred.", "/forgot-password")
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", err, "A server error occurred.", "/forgot-password")
		return
	}

	h.AuditLog.PasswordResetCompleted(ctx, r, userID)

	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Password changed", "/login"),
		Done:   true,
	})
}

func (h *Handler) renderResetWithError(w http.ResponseWriter, r *http.Request, msg, uid, token string) {
	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Choose a new password", "/login"),
		Error:         msg,
		UserID:        uid,
		Token:         token,
		PasswordRules: authutil.PasswordRules(),
	})
}

func formatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// internal/app/features/api/login.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alumhub/alumhub/internal/app/store/audit"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/authutil"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/login                                                              |
| Exchanges email and password for a signed bearer token.                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if allowed, _ := h.Limiter.Check(r, email); !allowed {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, email, "rate limited")
		writeError(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, email, "no such account")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Log.Error("load user for api login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not check credentials")
		return
	}
	if u.AuthMethod != models.AuthMethodPassword || u.PasswordHash == nil ||
		!authutil.CheckPassword(*u.PasswordHash, req.Password) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, email, "wrong password")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), u.Email, u.Role == models.RoleAdmin)
	if err != nil {
		h.Log.Error("issue api token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.Limiter.ResetEmail(email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, "api_token", u.Email)

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

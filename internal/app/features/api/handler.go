// internal/app/features/api/handler.go

// Package api exposes the JSON endpoints used by the payment gateway flow:
// token-based login, checkout session creation, and privileged payment
// status updates.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/ratelimit"
	"github.com/alumhub/alumhub/internal/app/system/tokens"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the JSON API endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Payments *paymentstore.Store
	Tokens   *tokens.Manager
	Gateway  *sslcommerz.Client
	Limiter  *ratelimit.LoginLimiter
	BaseURL  string
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, tokenMgr *tokens.Manager, gateway *sslcommerz.Client, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
		Tokens:   tokenMgr,
		Gateway:  gateway,
		Limiter:  ratelimit.NewLoginLimiter(),
		BaseURL:  baseURL,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing more to do.
		_ = err
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// internal/app/features/api/payments.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createPaymentRequest struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

type createPaymentResponse struct {
	GatewayPageURL string `json:"GatewayPageURL"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/sslcommerz/create-payment                                          |
| Creates a pending payment and a gateway session for it. Members may only     |
| start payments for themselves; the admin claim lifts that restriction.       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req createPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	if !claims.Admin && claims.UserID != req.UserID {
		writeError(w, http.StatusForbidden, "cannot start a payment for another member")
		return
	}

	if h.Gateway == nil || !h.Gateway.IsConfigured() {
		writeError(w, http.StatusServiceUnavailable, "payment gateway not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such member")
			return
		}
		h.Log.Error("load user for api payment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load member")
		return
	}

	p, err := h.Payments.Submit(ctx, models.Payment{
		UserID:         u.ID,
		Amount:         req.Amount,
		Method:         models.MethodSSLCommerz,
		TransactionRef: uuid.NewString(),
	})
	if err != nil {
		h.Log.Error("create api payment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not record payment")
		return
	}

	session, err := h.Gateway.InitiateSession(ctx, sslcommerz.Session{
		TransactionRef: p.TransactionRef,
		Amount:         p.Amount,
		CustomerName:   u.FullName,
		CustomerEmail:  u.Email,
		CustomerPhone:  u.Phone,
		SuccessURL:     h.BaseURL + "/dashboard/payment/success",
		FailURL:        h.BaseURL + "/dashboard/payment/fail",
		CancelURL:      h.BaseURL + "/dashboard/payment/cancel",
		IPNURL:         h.BaseURL + "/payment/ipn",
	})
	if err != nil {
		if updErr := h.Payments.UpdateStatus(ctx, p.ID, models.PaymentFailed, err.Error()); updErr != nil {
			h.Log.Error("mark failed api checkout", zap.Error(updErr), zap.String("payment_id", p.ID.Hex()))
		}
		var gwErr *sslcommerz.GatewayError
		if errors.As(err, &gwErr) && gwErr.Kind == sslcommerz.KindBadRequest {
			writeError(w, http.StatusBadRequest, gwErr.Reason)
			return
		}
		writeError(w, http.StatusBadGateway, "payment gateway unavailable")
		return
	}

	if err := h.Payments.SetGatewaySession(ctx, p.ID, session.SessionKey); err != nil {
		h.Log.Error("store gateway session key", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
	}

	h.AuditLog.PaymentInitiated(ctx, r, u.ID, p.ID, p.Amount)

	writeJSON(w, http.StatusOK, createPaymentResponse{GatewayPageURL: session.GatewayPageURL})
}

type updateStatusRequest struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

type updateStatusResponse struct {
	Message string `json:"message"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/payments/update-status                                             |
| Admin-token-only status transition. Non-admin tokens get a 403 and the       |
| payment is left untouched.                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if !claims.Admin {
		writeError(w, http.StatusForbidden, "admin token required")
		return
	}

	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(req.PaymentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid paymentId")
		return
	}
	if !models.ValidPaymentStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Payments.UpdateStatus(ctx, paymentID, req.Status, ""); err != nil {
		if errors.Is(err, paymentstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such payment")
			return
		}
		h.Log.Error("api status update", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not update payment")
		return
	}

	var actorID *primitive.ObjectID
	if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		actorID = &id
	}
	h.AuditLog.PaymentStatusUpdated(ctx, r, paymentID, actorID, req.Status)

	writeJSON(w, http.StatusOK, updateStatusResponse{Message: "payment status updated"})
}

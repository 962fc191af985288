// internal/app/features/payment/ipn.go
package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payment/ipn                                                            |
| Instant payment notification from the gateway. Unauthenticated by nature;    |
| the transaction ref ties it back to a payment we created, and unknown refs   |
| are dropped.                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleIPN(w http.ResponseWriter, r *http.Request) {
	n, err := sslcommerz.DecodeIPN(r)
	if err != nil {
		h.Log.Warn("undecodable IPN", zap.Error(err))
		http.Error(w, "bad notification", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Payments.GetByTransactionRef(ctx, n.TransactionRef)
	if err != nil {
		if errors.Is(err, paymentstore.ErrNotFound) {
			h.Log.Warn("IPN for unknown transaction", zap.String("tran_id", n.TransactionRef))
			http.Error(w, "unknown transaction", http.StatusNotFound)
			return
		}
		h.Log.Error("load payment for IPN", zap.Error(err))
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}

	// Completed payments stay completed; a replayed or duplicate IPN
	// must not regress the status.
	if p.Status == models.PaymentCompleted {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch {
	case n.Succeeded():
		if err := h.Payments.MarkCompleted(ctx, p.ID, n.ValidationID); err != nil {
			h.Log.Error("mark payment completed", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := h.Users.RecordPayment(ctx, p.UserID, time.Now().UTC()); err != nil {
			h.Log.Error("stamp last payment date", zap.Error(err), zap.String("user_id", p.UserID.Hex()))
		}
		h.AuditLog.PaymentCompleted(ctx, r, p.ID, n.ValidationID)
	case n.Status == sslcommerz.IPNCancelled:
		if err := h.Payments.UpdateStatus(ctx, p.ID, models.PaymentCancelled, ""); err != nil {
			h.Log.Error("mark payment cancelled", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		h.AuditLog.PaymentStatusUpdated(ctx, r, p.ID, nil, models.PaymentCancelled)
	default:
		if err := h.Payments.UpdateStatus(ctx, p.ID, models.PaymentFailed, "gateway reported "+n.Status); err != nil {
			h.Log.Error("mark payment failed", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		h.AuditLog.PaymentStatusUpdated(ctx, r, p.ID, nil, models.PaymentFailed)
	}

	w.WriteHeader(http.StatusOK)
}

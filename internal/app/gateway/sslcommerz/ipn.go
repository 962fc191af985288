// internal/app/gateway/sslcommerz/ipn.go
package sslcommerz

import (
	"net/http"
	"strconv"
	"strings"
)

// IPN statuses as sent by the gateway.
const (
	IPNValid     = "VALID"
	IPNValidated = "VALIDATED"
	IPNFailed    = "FAILED"
	IPNCancelled = "CANCELLED"
)

// IPN is the server-to-server notification the gateway posts after the
// customer finishes (or abandons) the hosted payment page.
type IPN struct {
	Status         string
	TransactionRef string
	ValidationID   string
	Amount         int
}

// DecodeIPN parses the notification form. It does not judge the
// outcome; callers map Status onto their own payment vocabulary.
func DecodeIPN(r *http.Request) (*IPN, error) {
	if err := r.ParseForm(); err != nil {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: "unreadable notification body"}
	}

	status := strings.ToUpper(strings.TrimSpace(r.PostFormValue("status")))
	tranID := strings.TrimSpace(r.PostFormValue("tran_id"))
	if status == "" || tranID == "" {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: "notification missing status or tran_id"}
	}

	ipn := &IPN{
		Status:         status,
		TransactionRef: tranID,
		ValidationID:   strings.TrimSpace(r.PostFormValue("val_id")),
	}
	if raw := r.PostFormValue("amount"); raw != "" {
		// Gateway sends amounts like "500.00".
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			ipn.Amount = int(f)
		}
	}
	return ipn, nil
}

// Succeeded reports whether the notification marks the payment as paid.
func (n *IPN) Succeeded() bool {
	return n.Status == IPNValid || n.Status == IPNValidated
}

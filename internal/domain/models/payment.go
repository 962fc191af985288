// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. A payment starts as pending. The manual flow moves it to
// verified (admin action); the gateway flow moves it to completed, failed,
// or cancelled (IPN callback). Payments are never deleted.
const (
	PaymentPending   = "pending"
	PaymentVerified  = "verified"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// PaymentStatuses lists every valid status value.
var PaymentStatuses = []string{
	PaymentPending,
	PaymentVerified,
	PaymentCompleted,
	PaymentFailed,
	PaymentCancelled,
}

// ValidPaymentStatus reports whether s is one of the known status values.
func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Payment methods.
const (
	MethodBkash      = "bKash"
	MethodNagad      = "Nagad"
	MethodSSLCommerz = "sslcommerz"
)

// Payment is a single membership-fee payment attempt.
//
// TransactionRef is the user-entered TrxID for manual (bKash/Nagad)
// submissions and a generated UUID for gateway sessions. Gateway fields are
// set only on the sslcommerz path.
type Payment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Amount      int    `bson:"amount" json:"amount"` // BDT
	Method      string `bson:"method" json:"method"`
	PayerNumber string `bson:"payer_number,omitempty" json:"payer_number,omitempty"`

	TransactionRef      string `bson:"transaction_ref" json:"transaction_ref"`
	GatewaySessionKey   string `bson:"gateway_session_key,omitempty" json:"gateway_session_key,omitempty"`
	GatewayValidationID string `bson:"gateway_validation_id,omitempty" json:"gateway_validation_id,omitempty"`

	Status string `bson:"status" json:"status"`
	Error  string `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	VerifiedAt  *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Package paymentpolicy provides authorization policies for payments.
//
// Authorization rules:
//   - Admins can list every payment and change payment status
//   - Members can submit payments for themselves and view their own history
//   - Visitors cannot access payments
package paymentpolicy

import (
	"net/http"

	"github.com/alumhub/alumhub/internal/app/system/authz"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanListAllPayments reports whether the current user can see the full
// payment ledger.
func CanListAllPayments(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanViewPayment reports whether the current user can view a payment
// owned by ownerID.
func CanViewPayment(r *http.Request, ownerID primitive.ObjectID) bool {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return userID == ownerID
}

// CanSubmitPayment reports whether the current user can submit a payment
// on behalf of ownerID. Members pay for themselves; admins can record a
// payment for any member.
func CanSubmitPayment(r *http.Request, ownerID primitive.ObjectID) bool {
	return CanViewPayment(r, ownerID)
}

// CanUpdateStatus reports whether the current user can verify or
// otherwise change a payment's status.
func CanUpdateStatus(r *http.Request) bool {
	return authz.IsAdmin(r)
}

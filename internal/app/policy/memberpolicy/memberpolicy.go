// Package memberpolicy provides authorization policies for member records.
//
// Authorization rules:
//   - Admins can view and manage every member, including approval decisions
//   - Members can view and edit only their own record
//   - Visitors cannot access member records
package memberpolicy

import (
	"net/http"

	"github.com/alumhub/alumhub/internal/app/system/authz"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanListMembers reports whether the current user can list member records.
// Only admins see the member roster.
func CanListMembers(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanViewMember reports whether the current user can view the given member.
//
// Authorization:
//   - Admin: any member
//   - Member: only their own record
func CanViewMember(r *http.Request, memberID primitive.ObjectID) bool {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return userID == memberID
}

// CanEditProfile reports whether the current user can edit the given
// member's profile. Same rule as viewing: admins or the member themself.
func CanEditProfile(r *http.Request, memberID primitive.ObjectID) bool {
	return CanViewMember(r, memberID)
}

// CanDecideApproval reports whether the current user can approve or
// reject membership applications.
func CanDecideApproval(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanManageSettings reports whether the current user can change site
// settings.
func CanManageSettings(r *http.Request) bool {
	return authz.IsAdmin(r)
}

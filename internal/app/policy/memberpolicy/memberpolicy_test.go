package memberpolicy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alumhub/alumhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestWithUser(role string, id primitive.ObjectID) *http.Request {
	req := httptest.NewRequest("GET", "/members", nil)
	if role == "" {
		return req
	}
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    id.Hex(),
		Name:  "Test User",
		Email: "user@example.com",
		Role:  role,
	})
}

func TestCanListMembers(t *testing.T) {
	id := primitive.NewObjectID()

	if !CanListMembers(requestWithUser("admin", id)) {
		t.Error("admin should list members")
	}
	if CanListMembers(requestWithUser("member", id)) {
		t.Error("member should not list members")
	}
	if CanListMembers(requestWithUser("", id)) {
		t.Error("visitor should not list members")
	}
}

func TestCanViewMember(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if !CanViewMember(requestWithUser("admin", self), other) {
		t.Error("admin should view any member")
	}
	if !CanViewMember(requestWithUser("member", self), self) {
		t.Error("member should view own record")
	}
	if CanViewMember(requestWithUser("member", self), other) {
		t.Error("member should not view another member")
	}
	if CanViewMember(requestWithUser("", self), self) {
		t.Error("visitor should not view members")
	}
}

func TestCanEditProfile(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if !CanEditProfile(requestWithUser("member", self), self) {
		t.Error("member should edit own profile")
	}
	if CanEditProfile(requestWithUser("member", self), other) {
		t.Error("member should not edit another profile")
	}
	if !CanEditProfile(requestWithUser("admin", self), other) {
		t.Error("admin should edit any profile")
	}
}

func TestCanDecideApproval(t *testing.T) {
	id := primitive.NewObjectID()

	if !CanDecideApproval(requestWithUser("admin", id)) {
		t.Error("admin should decide approvals")
	}
	if CanDecideApproval(requestWithUser("member", id)) {
		t.Error("member should not decide approvals")
	}
}

func TestCanManageSettings(t *testing.T) {
	id := primitive.NewObjectID()

	if !CanManageSettings(requestWithUser("admin", id)) {
		t.Error("admin should manage settings")
	}
	if CanManageSettings(requestWithUser("member", id)) {
		t.Error("member should not manage settings")
	}
}

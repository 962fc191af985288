package contact_test

import (
	"net/http/httptest"
	"testing"

	"github.com/alumhub/alumhub/internal/app/features/contact"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := contact.NewHandler(db, zap.NewNop())

	req := httptest.NewRequest("GET", "/contact", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }()
		handler.ServeContact(rec, req)
	}()
}

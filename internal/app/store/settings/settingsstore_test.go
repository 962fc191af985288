package settingsstore_test

import (
	"testing"

	settingsstore "github.com/alumhub/alumhub/internal/app/store/settings"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/alumhub/alumhub/internal/testutil"
)

func TestStore_Get_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if settings.SiteName != models.DefaultSiteName {
		t.Errorf("SiteName: got %q, want default %q", settings.SiteName, models.DefaultSiteName)
	}
	if settings.MembershipFee != models.DefaultMembershipFee {
		t.Errorf("MembershipFee: got %d, want default %d", settings.MembershipFee, models.DefaultMembershipFee)
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := models.SiteSettings{
		SiteName:      "City College Alumni",
		Tagline:       "Once a student, always family",
		ContactEmail:  "hello@example.com",
		MembershipFee: 1000,
		FooterHTML:    "<p>All rights reserved.</p>",
		UpdatedByName: "Admin",
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SiteName != "City College Alumni" {
		t.Errorf("SiteName: got %q", got.SiteName)
	}
	if got.MembershipFee != 1000 {
		t.Errorf("MembershipFee: got %d", got.MembershipFee)
	}
	if got.UpdatedAt == nil {
		t.Error("expected UpdatedAt stamped")
	}
}

func TestStore_Save_Upserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, models.SiteSettings{SiteName: "First", MembershipFee: 500})
	store.Save(ctx, models.SiteSettings{SiteName: "Second", MembershipFee: 750})

	// Only one document ever exists.
	exists, err := store.Exists(ctx)
	if err != nil || !exists {
		t.Fatalf("Exists: got (%v, %v)", exists, err)
	}
	got, _ := store.Get(ctx)
	if got.SiteName != "Second" {
		t.Errorf("expected latest save to win, got %q", got.SiteName)
	}
}

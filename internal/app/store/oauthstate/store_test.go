package oauthstate_test

import (
	"testing"
	"time"

	"github.com/alumhub/alumhub/internal/app/store/oauthstate"
	"github.com/alumhub/alumhub/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Save(ctx, "state-123", "/dashboard", time.Now().Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := store.Validate(ctx, "state-123")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected state to be valid")
	}
	if returnURL != "/dashboard" {
		t.Errorf("returnURL: got %q, want /dashboard", returnURL)
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, "state-once", "", time.Now().Add(10*time.Minute))

	_, valid, _ := store.Validate(ctx, "state-once")
	if !valid {
		t.Fatal("first validation should succeed")
	}
	_, valid, _ = store.Validate(ctx, "state-once")
	if valid {
		t.Error("second validation should fail (one-time use)")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, "state-old", "", time.Now().Add(-time.Minute))

	_, valid, err := store.Validate(ctx, "state-old")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expired state should not validate")
	}
}

func TestStore_Validate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, valid, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("unknown state should not validate")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, "fresh", "", time.Now().Add(10*time.Minute))
	store.Save(ctx, "stale-1", "", time.Now().Add(-time.Minute))
	store.Save(ctx, "stale-2", "", time.Now().Add(-time.Hour))

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	_, valid, _ := store.Validate(ctx, "fresh")
	if !valid {
		t.Error("fresh state should survive cleanup")
	}
}

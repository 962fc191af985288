package audit_test

import (
	"testing"
	"time"

	"github.com/alumhub/alumhub/internal/app/store/audit"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != audit.EventLoginSuccess {
		t.Errorf("event type: got %q", events[0].EventType)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp auto-stamped")
	}
}

func TestStore_Query_ByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})
	store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventMemberApproved, ActorID: &actorID, Success: true})
	store.Log(ctx, audit.Event{Category: audit.CategoryPayment, EventType: audit.EventPaymentStatusUpdated, ActorID: &actorID, Success: true})

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 admin event, got %d", len(events))
	}
	if events[0].EventType != audit.EventMemberApproved {
		t.Errorf("event type: got %q", events[0].EventType)
	}
}

func TestStore_Query_TimeRangeAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := time.Now().Add(-48 * time.Hour)
	store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Timestamp: old, Success: true})
	store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})

	cutoff := time.Now().Add(-time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &cutoff})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 recent event, got %d", len(events))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 auth events total, got %d", n)
	}
}

func TestStore_GetRecent_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventRegistered, Timestamp: time.Now().Add(-time.Minute), Success: true})
	store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != audit.EventLoginSuccess {
		t.Errorf("expected newest first, got %q", events[0].EventType)
	}
}

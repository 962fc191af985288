// internal/testutil/db.go

// Package testutil provides helpers for tests that need a live MongoDB,
// test fixtures, and authenticated HTTP requests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var dbCounter int64

// SetupTestDB connects to a local MongoDB and returns a fresh database that
// is dropped when the test finishes. The URI comes from MONGO_TEST_URI,
// defaulting to mongodb://localhost:27017. Tests are skipped when no server
// is reachable so the suite still runs on machines without Mongo.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("skipping: MongoDB at %s not reachable: %v", uri, err)
	}

	n := atomic.AddInt64(&dbCounter, 1)
	name := fmt.Sprintf("alumhub_test_%d_%d", time.Now().UnixNano(), n)
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

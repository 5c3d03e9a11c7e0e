//go:build integration

// Package testutil runs the MongoDB testcontainer used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoImage = "mongo:7.0"
	// dbNamePrefix marks databases created by tests.
	dbNamePrefix  = "sq_"
	maxDBNameBase = 40
	dropTimeout   = 10 * time.Second
)

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a dedicated MongoDB container. Packages with many
// integration tests should use RunWithSharedMongoDB instead.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, mongoImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate container: %w", err)
	}
	return nil
}

var shared struct {
	mu        sync.RWMutex
	container *MongoDBContainer
}

// RunWithSharedMongoDB starts one container for the package, runs its tests
// and terminates the container. Call it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithSharedMongoDB(m))
//	}
func RunWithSharedMongoDB(m *testing.M) int {
	ctx := context.Background()

	container, err := SetupMongoDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shared MongoDB: %v\n", err)
		return 1
	}
	shared.mu.Lock()
	shared.container = container
	shared.mu.Unlock()

	code := m.Run()

	if err := container.Cleanup(ctx); err != nil {
		// Docker reaps the container anyway.
		fmt.Fprintf(os.Stderr, "Warning: failed to clean up shared MongoDB container: %v\n", err)
	}
	return code
}

// SharedMongoURI returns the URI of the package's shared container.
func SharedMongoURI() string {
	shared.mu.RLock()
	defer shared.mu.RUnlock()

	if shared.container == nil {
		panic("shared MongoDB container not started - call RunWithSharedMongoDB from TestMain")
	}
	return shared.container.URI
}

var invalidDBNameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ".", "_", " ", "_", "\"", "_",
	"$", "_", "*", "_", "<", "_", ">", "_", ":", "_", "|", "_", "?", "_",
)

// DatabaseName returns a database name unique to t on the shared container.
// The database is dropped when t finishes.
func DatabaseName(t testing.TB) string {
	t.Helper()

	base := invalidDBNameChars.Replace(t.Name())
	if len(base) > maxDBNameBase {
		base = base[:maxDBNameBase]
	}
	name := fmt.Sprintf("%s%s_%d", dbNamePrefix, base, time.Now().UnixNano()%1_000_000)

	uri := SharedMongoURI()
	t.Cleanup(func() {
		if err := dropDatabase(uri, name); err != nil {
			t.Logf("failed to drop test database %s: %v", name, err)
		}
	})
	return name
}

func dropDatabase(uri, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dropTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	return client.Database(name).Drop(ctx)
}

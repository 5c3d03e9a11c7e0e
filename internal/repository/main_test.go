//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/sash-quote-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestMain shares one MongoDB container across the package's integration tests.
func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithSharedMongoDB(m))
}

// newTestDB connects to a fresh database on the shared container. The
// connection is closed when t finishes.
func newTestDB(t *testing.T) *MongoDB {
	t.Helper()
	db, err := NewMongoDB(testutil.SharedMongoURI(), testutil.DatabaseName(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

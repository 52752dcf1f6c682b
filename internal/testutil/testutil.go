package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivmel/reflecta/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied. The handle is closed automatically when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

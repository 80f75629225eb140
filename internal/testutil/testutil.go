package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, including the seeded default categories and words.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}

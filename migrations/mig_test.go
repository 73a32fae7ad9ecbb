package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(ctx, db))
	require.NoError(t, Up(ctx, db))

	v, err := Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"clients", "consultants", "crew_members", "crew_roles", "projects", "assignments", "audit_log", "outbox_events", "api_keys"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

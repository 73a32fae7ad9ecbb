package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/migrations"
)

func openTestDB(t *testing.T) *gormsqlite.DB {
	t.Helper()
	db, err := gormsqlite.Open(filepath.Join(t.TempDir(), "crewdesk.sqlite"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.WriteSQLDB()
	require.NoError(t, err)
	require.NoError(t, migrations.Up(context.Background(), sqlDB))
	return db
}

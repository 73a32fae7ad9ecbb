package gormsqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSNIncludesPerConnectionPragmas(t *testing.T) {
	reader := buildDSN("./db.sqlite", true)
	writer := buildDSN("./db.sqlite", false)

	for _, c := range []string{
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=trusted_schema(OFF)",
	} {
		assert.Contains(t, reader, c)
		assert.Contains(t, writer, c)
	}
	assert.Contains(t, reader, "_pragma=query_only(1)")
	assert.Contains(t, writer, "_pragma=query_only(0)")
	assert.True(t, len(reader) > len("file:./db.sqlite?"))
}

func TestBuildDSNKeepsExistingQuery(t *testing.T) {
	dsn := buildDSN("file:crew.db?cache=shared", false)
	assert.Contains(t, dsn, "file:crew.db?cache=shared&_pragma=")
}

func TestOpenReaderIsQueryOnly(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "crew.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.WriteTX(ctx, func(tx *Tx) error {
		return tx.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error
	}))

	err = db.R.WithContext(ctx).Exec("INSERT INTO probe (id) VALUES (1)").Error
	assert.Error(t, err)

	var mode string
	require.NoError(t, db.R.WithContext(ctx).Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

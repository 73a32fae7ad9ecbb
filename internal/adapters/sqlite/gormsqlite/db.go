package gormsqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	gormdriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DB keeps separate reader and writer pools over one SQLite file. The writer
// pool holds a single connection, so WriteTX calls are serialized.
type DB struct {
	R *gorm.DB
	W *gorm.DB
}

type Tx struct {
	*gorm.DB
}

type cbfn func(tx *Tx) error

func (db *DB) ReadTX(ctx context.Context, fn cbfn) error {
	return db.R.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{DB: tx})
	}, &sql.TxOptions{ReadOnly: true})
}

func (db *DB) WriteTX(ctx context.Context, fn cbfn) error {
	return db.W.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{DB: tx})
	})
}

func (db *DB) WriteSQLDB() (*sql.DB, error) {
	return db.W.DB()
}

func (db *DB) Close() error {
	var firstErr error
	for _, g := range []*gorm.DB{db.R, db.W} {
		if err := closeGORM(g); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ io.Closer = (*DB)(nil)

func Open(file string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	reader, err := openPool(buildDSN(file, true), gormLogger)
	if err != nil {
		return nil, fmt.Errorf("open read db: %w", err)
	}
	writer, err := openPool(buildDSN(file, false), gormLogger)
	if err != nil {
		_ = closeGORM(reader)
		return nil, fmt.Errorf("open write db: %w", err)
	}

	rdb, err := reader.DB()
	if err != nil {
		_ = closeGORM(reader)
		_ = closeGORM(writer)
		return nil, fmt.Errorf("reader sql db: %w", err)
	}
	wdb, err := writer.DB()
	if err != nil {
		_ = closeGORM(reader)
		_ = closeGORM(writer)
		return nil, fmt.Errorf("writer sql db: %w", err)
	}

	rdb.SetMaxOpenConns(runtime.NumCPU())
	rdb.SetMaxIdleConns(runtime.NumCPU())
	rdb.SetConnMaxLifetime(0)
	rdb.SetConnMaxIdleTime(0)

	wdb.SetMaxOpenConns(1)
	wdb.SetMaxIdleConns(1)
	wdb.SetConnMaxLifetime(0)
	wdb.SetConnMaxIdleTime(0)

	log.Debug("sqlite opened", zap.String("file", file))
	return &DB{R: reader, W: writer}, nil
}

func openPool(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	return gorm.Open(gormdriver.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		PrepareStmt: true,
		Logger:      gormLogger,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
}

// buildDSN attaches the pragmas as connection parameters so that every pooled
// connection gets them, not only the first one.
func buildDSN(file string, readOnly bool) string {
	pragmas := []string{
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"temp_store(MEMORY)",
		"wal_autocheckpoint(1000)",
		"cache_size(-20000)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"trusted_schema(OFF)",
	}
	if readOnly {
		pragmas = append(pragmas, "query_only(1)")
	} else {
		pragmas = append(pragmas, "query_only(0)")
	}

	params := url.Values{}
	for _, p := range pragmas {
		params.Add("_pragma", p)
	}
	params.Set("_txlock", "immediate")

	sep := "?"
	if strings.Contains(file, "?") {
		sep = "&"
	}
	// url.Values escapes the parentheses, which the driver does not expect.
	encoded := strings.NewReplacer("%28", "(", "%29", ")").Replace(params.Encode())
	return "file:" + strings.TrimPrefix(file, "file:") + sep + encoded
}

func closeGORM(g *gorm.DB) error {
	if g == nil {
		return nil
	}
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package testutil

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/healx-backend/internal/data/db"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a process-wide migrated database. It is Postgres when
// TEST_POSTGRES_DSN is set and a shared in-memory SQLite database otherwise.
// Pair it with Tx so tests do not observe each other's rows.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		db, dbErr = open("shared_" + uuid.NewString())
	})
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// FreshDB returns a database private to the calling test, for code that opens
// its own transactions. Under Postgres it falls back to the shared database.
func FreshDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if postgresDSN() != "" {
		return DB(tb)
	}
	fresh, err := open("fresh_" + uuid.NewString())
	if err != nil {
		tb.Fatalf("failed to init fresh db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := fresh.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return fresh
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func postgresDSN() string {
	return strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
}

func open(name string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}

	var (
		gdb *gorm.DB
		err error
	)
	if dsn := postgresDSN(); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		gdb, err = dbpkg.OpenSQLite(dbpkg.SQLiteMemoryDSN(name), cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := dbpkg.AutoMigrateAll(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

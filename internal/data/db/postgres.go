package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type Config struct {
	// DatabaseURL is a Postgres DSN. Empty selects the SQLite fallback.
	DatabaseURL string
	SQLitePath  string
}

type Service struct {
	db      *gorm.DB
	log     *logger.Logger
	dialect string
}

func NewService(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{Logger: gormLog}

	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		serviceLog.Info("Connected to Postgres")
		return &Service{db: db, log: serviceLog, dialect: "postgres"}, nil
	}

	path := strings.TrimSpace(cfg.SQLitePath)
	if path == "" {
		path = "/tmp/healx_fallback.db"
	}
	db, err := OpenSQLite(SQLiteFileDSN(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite fallback: %w", err)
	}
	serviceLog.Warn("DATABASE_URL not set; using SQLite fallback", "path", path)
	return &Service{db: db, log: serviceLog, dialect: "sqlite"}, nil
}

// SQLiteFileDSN enables foreign keys and a busy timeout for a file database.
func SQLiteFileDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// SQLiteMemoryDSN names a shared in-memory database; callers pick unique names
// to stay isolated.
func SQLiteMemoryDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000"
}

// OpenSQLite opens dsn with a single connection. SQLite serializes writers and
// a shared pool only turns that into "database is locked" errors.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() string { return s.dialect }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

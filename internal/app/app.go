package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/data/db"
	"github.com/yungbote/healx-backend/internal/http"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/logger"
	"github.com/yungbote/healx-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// Base is the part of the app every command needs: config, logger and an
// open database.
type Base struct {
	Log       *logger.Logger
	Cfg       Config
	DBService *db.Service
}

func NewBase() (*Base, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	dbService, err := db.NewService(db.Config{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	return &Base{Log: log, Cfg: cfg, DBService: dbService}, nil
}

func (b *Base) Close() {
	if b == nil {
		return
	}
	if b.DBService != nil {
		_ = b.DBService.Close()
	}
	if b.Log != nil {
		b.Log.Sync()
	}
}

// Migrate applies the schema regardless of DB_AUTO_MIGRATE.
func (b *Base) Migrate() error {
	b.Log.Info("Running schema migration", "dialect", b.DBService.Dialect())
	return db.AutoMigrateAll(b.DBService.DB())
}

func New(ctx context.Context) (*App, error) {
	base, err := NewBase()
	if err != nil {
		return nil, err
	}
	log, cfg := base.Log, base.Cfg
	theDB := base.DBService.DB()

	if cfg.DBAutoMigrate {
		if err := base.Migrate(); err != nil {
			base.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.New(log)
		metrics.RegisterDBStats(log, theDB, base.DBService.Dialect())
	}
	otelShutdown := observability.InitOTel(ctx, log, cfg.otelConfig())

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		base.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(log, cfg, metrics, reposet, clients)
	if err != nil {
		clients.Close()
		base.Close()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		dbService:    base.DBService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the registry invalidation listener and the
// redis health collector. Both stop when Close is called.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.Services.Registry.StartInvalidationListener(ctx); err != nil {
		return fmt.Errorf("start registry listener: %w", err)
	}
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, 15*time.Second)
	return nil
}

// SeedMetrics registers the catalog in raw, or the embedded default catalog
// when raw is empty.
func (a *App) SeedMetrics(ctx context.Context, raw []byte) (services.SeedResult, error) {
	if len(raw) == 0 {
		raw = services.DefaultMetricCatalog
	}
	return services.SeedMetricCatalog(ctx, a.Services.Registry, raw)
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.SeedMetrics {
		res, err := a.SeedMetrics(ctx, nil)
		if err != nil {
			return fmt.Errorf("seed metric catalog: %w", err)
		}
		a.Log.Info("Metric catalog seeded", "created", res.Created, "unchanged", res.Unchanged)
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	addr := a.Cfg.ListenAddress()
	a.Log.Info("HealX API listening", "addr", addr)
	server := &http.Server{Engine: a.Router}
	return server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/healx-backend/internal/http/handlers"
	httpMW "github.com/yungbote/healx-backend/internal/http/middleware"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware
	Authz          *httpMW.Authz

	HealthHandler      *httpH.HealthHandler
	ObservationHandler *httpH.ObservationHandler
	JournalHandler     *httpH.JournalHandler
	MediaHandler       *httpH.MediaHandler
	MetricHandler      *httpH.MetricHandler
	SourceHandler      *httpH.SourceHandler
	UserHandler        *httpH.UserHandler
	MedicationHandler  *httpH.MedicationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/health", cfg.HealthHandler.Health)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	gate := cfg.Authz.Require

	// Observations
	if cfg.ObservationHandler != nil {
		api.POST("/observations/batch", gate("observations", "write"), cfg.ObservationHandler.IngestBatch)
		api.GET("/observations", gate("observations", "read"), cfg.ObservationHandler.List)
	}

	// Journal
	if cfg.JournalHandler != nil {
		api.POST("/journal", gate("journal", "write"), cfg.JournalHandler.Upsert)
		api.GET("/journal", gate("journal", "read"), cfg.JournalHandler.List)
	}

	// Media
	if cfg.MediaHandler != nil {
		api.POST("/media/upload-url", gate("media", "write"), cfg.MediaHandler.UploadURL)
	}

	// Metric registry
	if cfg.MetricHandler != nil {
		api.GET("/metrics/definitions", gate("metrics", "read"), cfg.MetricHandler.ListDefinitions)
		api.POST("/admin/metrics", gate("admin.metrics", "write"), cfg.MetricHandler.Register)
		api.POST("/admin/registry/invalidate", gate("admin.registry", "write"), cfg.MetricHandler.Invalidate)
	}

	// Sources
	if cfg.SourceHandler != nil {
		api.POST("/admin/sources", gate("admin.sources", "write"), cfg.SourceHandler.Provision)
	}

	// User (Me)
	if cfg.UserHandler != nil {
		api.GET("/me", gate("profile", "read"), cfg.UserHandler.GetMe)
	}

	// Medications
	if cfg.MedicationHandler != nil {
		api.POST("/medications", gate("medications", "write"), cfg.MedicationHandler.Create)
		api.GET("/medications", gate("medications", "read"), cfg.MedicationHandler.List)
	}

	return r
}

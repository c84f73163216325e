package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http"
	httpH "github.com/yungbote/healx-backend/internal/http/handlers"
	httpMW "github.com/yungbote/healx-backend/internal/http/middleware"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type Middleware struct {
	Auth  *httpMW.AuthMiddleware
	Authz *httpMW.Authz
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Observation *httpH.ObservationHandler
	Journal     *httpH.JournalHandler
	Media       *httpH.MediaHandler
	Metric      *httpH.MetricHandler
	Source      *httpH.SourceHandler
	User        *httpH.UserHandler
	Medication  *httpH.MedicationHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Observation: httpH.NewObservationHandler(services.Ingestion, services.Observations),
		Journal:     httpH.NewJournalHandler(services.Journal),
		Media:       httpH.NewMediaHandler(services.Media),
		Metric:      httpH.NewMetricHandler(services.Registry),
		Source:      httpH.NewSourceHandler(services.Sources),
		User:        httpH.NewUserHandler(services.User),
		Medication:  httpH.NewMedicationHandler(services.Medications),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:  httpMW.NewAuthMiddleware(log, services.Auth),
		Authz: httpMW.NewAuthz(log, services.Authorizer),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	tracingService := ""
	if cfg.OtelEnabled {
		tracingService = cfg.OtelServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		TracingService:     tracingService,
		AuthMiddleware:     middleware.Auth,
		Authz:              middleware.Authz,
		HealthHandler:      handlers.Health,
		ObservationHandler: handlers.Observation,
		JournalHandler:     handlers.Journal,
		MediaHandler:       handlers.Media,
		MetricHandler:      handlers.Metric,
		SourceHandler:      handlers.Source,
		UserHandler:        handlers.User,
		MedicationHandler:  handlers.Medication,
	})
}

package app

import (
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/authz"
	"github.com/yungbote/healx-backend/internal/platform/logger"
	"github.com/yungbote/healx-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Authorizer   *authz.Authorizer
	Registry     services.MetricRegistry
	Sources      services.SourceService
	Ingestion    services.IngestionService
	Observations services.ObservationService
	Journal      services.JournalService
	Media        services.MediaService
	Medications  services.MedicationService
	User         services.UserService
}

func wireServices(log *logger.Logger, cfg Config, metrics *observability.Metrics, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	authorizer, err := authz.NewDefaultAuthorizer(cfg.AuthzMode)
	if err != nil {
		return Services{}, err
	}

	var bus services.RegistryBus
	if clients.Redis != nil {
		bus = services.NewRedisRegistryBus(log, clients.Redis, cfg.RedisChannel)
	}
	registry := services.NewMetricRegistry(log, metrics, reposet.MetricDefinition, bus, cfg.RegistryTTL)
	sources := services.NewSourceService(log, reposet.DataSource)

	return Services{
		Auth:         services.NewAuthService(log, cfg.JWTSecretKey, cfg.AuthMode),
		Authorizer:   authorizer,
		Registry:     registry,
		Sources:      sources,
		Ingestion:    services.NewIngestionService(log, metrics, reposet.TxRunner, registry, sources, reposet.Observation, cfg.IngestMaxBatch),
		Observations: services.NewObservationService(log, registry, reposet.Observation),
		Journal:      services.NewJournalService(log, metrics, reposet.JournalEntry),
		Media:        services.NewMediaService(log, metrics, clients.UploadSigner, reposet.MediaFile),
		Medications:  services.NewMedicationService(log, reposet.Medication),
		User:         services.NewUserService(log, reposet.User),
	}, nil
}

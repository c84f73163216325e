package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/authz"
	"github.com/yungbote/healx-backend/internal/platform/envutil"
	"github.com/yungbote/healx-backend/internal/services"
)

type Config struct {
	LogMode     string
	Environment string
	Port        string

	DatabaseURL    string
	SQLitePath     string
	DBAutoMigrate  bool
	SeedMetrics    bool
	IngestMaxBatch int

	JWTSecretKey string
	AuthMode     services.AuthMode
	AuthzMode    authz.Mode
	CORSOrigins  []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	RegistryTTL   time.Duration

	MediaBucket               string
	ObjectStorageMode         string
	StorageEmulatorHost       string
	StorageModeCompatFallback bool
	GCSSignerEmail            string
	GCSSignerPrivateKey       string
	UploadTokenSecret         string
	MediaUploadURLTTL         time.Duration

	MetricsEnabled  bool
	OtelEnabled     bool
	OtelServiceName string
	OtelExporter    string
	OtelEndpoint    string
	OtelInsecure    bool
	OtelSampleRatio float64
}

func LoadConfig() (Config, error) {
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.String("APP_ENV", "development"),
		Port:        envutil.String("PORT", "8080"),

		DatabaseURL:    envutil.String("DATABASE_URL", ""),
		SQLitePath:     envutil.String("SQLITE_PATH", "/tmp/healx_fallback.db"),
		DBAutoMigrate:  envutil.Bool("DB_AUTO_MIGRATE", true),
		SeedMetrics:    envutil.Bool("SEED_METRIC_CATALOG", true),
		IngestMaxBatch: envutil.Int("INGEST_MAX_BATCH", services.DefaultMaxBatchSize),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:  envutil.List("CORS_ALLOW_ORIGINS", nil),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		RedisChannel:  envutil.String("REDIS_CHANNEL", services.DefaultRegistryChannel),
		RegistryTTL:   envutil.Duration("REGISTRY_TTL", 5*time.Minute),

		MediaBucket:         envutil.String("MEDIA_BUCKET", envutil.String("FIREBASE_STORAGE_BUCKET", "")),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		GCSSignerEmail:      envutil.String("GCS_SIGNER_EMAIL", ""),
		GCSSignerPrivateKey: envutil.String("GCS_SIGNER_PRIVATE_KEY", ""),
		UploadTokenSecret:   envutil.String("MEDIA_UPLOAD_TOKEN_SECRET", ""),
		MediaUploadURLTTL:   envutil.Duration("MEDIA_UPLOAD_URL_TTL", 15*time.Minute),

		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),
		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelServiceName: envutil.String("OTEL_SERVICE_NAME", "healx-api"),
		OtelExporter:    envutil.String("OTEL_EXPORTER", ""),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 0.1),
	}

	var err error
	if cfg.AuthMode, err = services.ParseAuthMode(envutil.String("AUTH_MODE", "")); err != nil {
		return Config{}, err
	}
	if cfg.AuthzMode, err = authz.ParseMode(envutil.String("AUTHZ_MODE", "")); err != nil {
		return Config{}, err
	}
	mode, fallback, err := resolveStorageMode(envutil.String("OBJECT_STORAGE_MODE", ""), cfg.StorageEmulatorHost)
	if err != nil {
		return Config{}, err
	}
	cfg.ObjectStorageMode = mode
	cfg.StorageModeCompatFallback = fallback

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if c.AuthMode == services.AuthModeJWT && strings.TrimSpace(c.JWTSecretKey) == "" {
		problems = append(problems, "JWT_SECRET_KEY is required unless AUTH_MODE=dev")
	}
	if c.IngestMaxBatch <= 0 {
		problems = append(problems, "INGEST_MAX_BATCH must be positive")
	}
	if c.MediaUploadURLTTL <= 0 || c.MediaUploadURLTTL > 7*24*time.Hour {
		problems = append(problems, "MEDIA_UPLOAD_URL_TTL must be between 1s and 7 days")
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) ListenAddress() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf(":%s", port)
}

func (c Config) otelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.Environment,
		Exporter:    c.OtelExporter,
		Endpoint:    c.OtelEndpoint,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}

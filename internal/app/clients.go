package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/healx-backend/internal/platform/gcp"
	"github.com/yungbote/healx-backend/internal/platform/logger"
	"github.com/yungbote/healx-backend/internal/platform/redisx"
)

// Clients holds connections to external systems. Both are optional: a nil
// Redis disables cross-process registry invalidation and a nil UploadSigner
// disables media upload grants.
type Clients struct {
	Redis        *goredis.Client
	UploadSigner gcp.UploadSigner
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redisx.Connect(ctx, log, redisx.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set; metric registry invalidation stays process-local")
	}

	signer, err := resolveUploadSigner(ctx, log, cfg)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init object storage: %w", err)
	}

	return Clients{Redis: rdb, UploadSigner: signer}, nil
}

func (c Clients) Close() {
	if c.UploadSigner != nil {
		_ = c.UploadSigner.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

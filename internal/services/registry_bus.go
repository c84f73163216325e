package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const DefaultRegistryChannel = "healx:metric-registry"

// RegistryEvent tells every process to drop its metric definition cache.
type RegistryEvent struct {
	Kind   string    `json:"kind"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

type RegistryBus interface {
	Publish(ctx context.Context, evt RegistryEvent) error
	// StartForwarder delivers events until ctx is cancelled.
	StartForwarder(ctx context.Context, onEvent func(evt RegistryEvent)) error
}

type redisRegistryBus struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

// NewRedisRegistryBus publishes on channel through rdb. The caller owns rdb.
func NewRedisRegistryBus(log *logger.Logger, rdb *redis.Client, channel string) RegistryBus {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultRegistryChannel
	}
	return &redisRegistryBus{
		log:     log.With("service", "RedisRegistryBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *redisRegistryBus) Publish(ctx context.Context, evt RegistryEvent) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisRegistryBus) StartForwarder(ctx context.Context, onEvent func(evt RegistryEvent)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// Receive blocks until the subscription is confirmed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var evt RegistryEvent
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					b.log.Warn("bad registry event payload", "error", err)
					continue
				}
				onEvent(evt)
			}
		}
	}()

	return nil
}

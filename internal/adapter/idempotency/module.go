package idempotency

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// Module exposes the idempotency store to fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

var newRedisClient = func(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func newStore(p storeParams) usecase.IdempotencyStore {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("redis not configured, order creation is not idempotent")
		return Disabled{}
	}

	client := newRedisClient(p.Config.RedisAddress)
	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis is unreachable, idempotency keys will degrade",
					slog.String("address", p.Config.RedisAddress),
					slog.String("error", err.Error()),
				)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisStore(client, p.Config.IdempotencyTTL)
}

package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/adapter/idempotency"
	"github.com/polkiloo/marketplace/internal/adapter/kafka"
	"github.com/polkiloo/marketplace/internal/app"
	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/logger"
	"github.com/polkiloo/marketplace/internal/observability"
	"github.com/polkiloo/marketplace/internal/pkg/auth"
	"github.com/polkiloo/marketplace/internal/server/http/router"
	"github.com/polkiloo/marketplace/internal/storage/postgres"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// Module composes the whole application graph. Extra options are appended
// last so tests can replace any dependency.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		observability.Module,
		auth.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) app.StorageProbe { return s }),
		kafka.Module,
		idempotency.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

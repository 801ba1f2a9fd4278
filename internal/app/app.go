package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/server/http/handlers"
	"github.com/polkiloo/marketplace/internal/usecase"
	"github.com/polkiloo/marketplace/internal/worker"
)

const serverOperation = "marketplace-api"

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewMarketplaceFacade,
		func(f *MarketplaceFacade) handlers.MarketplaceFacade { return f },
		newHTTPServer,
		newEventDispatcher,
		func(d *worker.EventDispatcher) usecase.EventSink { return d },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config         *config.Config
	Router         *gin.Engine
	TracerProvider trace.TracerProvider
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: otelhttp.NewHandler(p.Router, serverOperation, otelhttp.WithTracerProvider(p.TracerProvider)),
	}
}

type dispatcherParams struct {
	fx.In

	Publisher worker.Publisher
	Config    *config.Config
	Logger    *slog.Logger
}

func newEventDispatcher(p dispatcherParams) *worker.EventDispatcher {
	return worker.NewEventDispatcher(p.Publisher, p.Config.EventWorkers, p.Config.EventBuffer, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.EventDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting marketplace", slog.String("addr", p.Server.Addr))
			p.Dispatcher.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			serverErr := p.Server.Shutdown(shutdownCtx)
			if errors.Is(serverErr, http.ErrServerClosed) {
				serverErr = nil
			}
			// Handlers may still emit while the server drains, so the
			// dispatcher stops only afterwards.
			if err := p.Dispatcher.Stop(shutdownCtx); err != nil {
				p.Logger.Warn("event dispatcher stopped with pending events", slog.String("error", err.Error()))
			}
			if serverErr != nil {
				return serverErr
			}
			p.Logger.Info("marketplace stopped")
			return nil
		},
	})
}

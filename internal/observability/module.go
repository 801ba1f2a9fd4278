package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
)

// Module installs tracing and exposes the tracer provider to fx graph.
var Module = fx.Provide(newTracing)

type tracingParams struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

func newTracing(p tracingParams) (trace.TracerProvider, error) {
	tp, err := NewTracerProvider(context.Background(), p.Config.OtelEndpoint)
	if err != nil {
		return nil, err
	}
	Install(tp)
	if p.Config.OtelEndpoint != "" {
		p.Logger.Info("exporting traces", slog.String("endpoint", p.Config.OtelEndpoint))
	}

	p.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}

package kafka

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/worker"
)

// Module exposes the notification publisher to fx graph.
var Module = fx.Provide(newEventPublisher)

type publisherParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// newEventPublisher falls back to the log publisher when no brokers are set.
func newEventPublisher(p publisherParams) (worker.Publisher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers not configured, notifications go to the log")
		return worker.NewLogPublisher(p.Logger), nil
	}
	pub, err := NewPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.TracerProvider)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("kafka publisher configured",
		slog.Any("brokers", p.Config.KafkaBrokers),
		slog.String("topic", p.Config.KafkaTopic),
	)
	return pub, nil
}

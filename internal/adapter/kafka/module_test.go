package kafka

import (
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/worker"
)

func TestNewEventPublisherFallsBackToLog(t *testing.T) {
	pub, err := newEventPublisher(publisherParams{
		Config:         &config.Config{KafkaTopic: "notifications"},
		Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		TracerProvider: noop.NewTracerProvider(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(*worker.LogPublisher); !ok {
		t.Fatalf("expected log publisher, got %T", pub)
	}
}

package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/app"
	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/storage/postgres"
	"github.com/polkiloo/marketplace/internal/test"
	"github.com/polkiloo/marketplace/internal/usecase"
	"github.com/polkiloo/marketplace/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		JWTSecret:       "secret",
		ShutdownTimeout: time.Millisecond,
		KafkaTopic:      "orders",
		EventWorkers:    1,
		EventBuffer:     4,
		StatusRetries:   1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewMemoryStore()

	var (
		facade     *app.MarketplaceFacade
		server     *http.Server
		engine     *gin.Engine
		sink       usecase.EventSink
		publisher  worker.Publisher
		idempotent usecase.IdempotencyStore
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(store.Users())),
			fx.Replace(repository.ProductRepository(store.Products())),
			fx.Replace(repository.OrderRepository(store.Orders())),
			fx.Replace(repository.ReviewRepository(store.Reviews())),
		),
		fx.Populate(&facade, &server, &engine, &sink, &publisher, &idempotent),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })

	if facade == nil || server == nil || engine == nil {
		t.Fatal("expected facade, server and router instances")
	}
	if _, ok := sink.(*worker.EventDispatcher); !ok {
		t.Fatalf("expected event dispatcher as sink, got %T", sink)
	}
	if _, ok := publisher.(*worker.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers, got %T", publisher)
	}
	orderID, fresh, err := idempotent.Begin(context.Background(), "buyer", "key")
	if err != nil || !fresh || orderID != "" {
		t.Fatalf("expected disabled idempotency store, got %q %v %v", orderID, fresh, err)
	}
}

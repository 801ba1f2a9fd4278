package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

var (
	ErrQueueFull         = errors.New("event queue is full")
	ErrDispatcherStopped = errors.New("event dispatcher is stopped")
)

const defaultPublishTimeout = 5 * time.Second

// Publisher delivers a single event to the notification transport.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

type job struct {
	event model.Event
	span  trace.SpanContext
}

// EventDispatcher decouples event emission from delivery with a bounded queue
// drained by a fixed pool of workers.
type EventDispatcher struct {
	publisher Publisher
	workers   int
	timeout   time.Duration
	logger    *slog.Logger

	jobs    chan job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewEventDispatcher constructs dispatcher worker pool.
func NewEventDispatcher(publisher Publisher, workers, buffer int, logger *slog.Logger) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = workers
	}
	return &EventDispatcher{
		publisher: publisher,
		workers:   workers,
		timeout:   defaultPublishTimeout,
		logger:    logger,
		jobs:      make(chan job, buffer),
	}
}

// Emit enqueues event without waiting for delivery.
func (d *EventDispatcher) Emit(ctx context.Context, event model.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return &domainErrors.DependencyError{Op: "emit event", Err: ErrDispatcherStopped}
	}
	select {
	case d.jobs <- job{event: event, span: trace.SpanContextFromContext(ctx)}:
		return nil
	default:
		return &domainErrors.DependencyError{Op: "emit event", Err: ErrQueueFull}
	}
}

// Start launches background publishing. The pool outlives ctx; use Stop to end it.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop refuses new events, drains the queue and closes the publisher. When ctx
// expires first, in-flight publishes are cancelled and the rest are dropped.
func (d *EventDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.jobs)
	started := d.started
	d.mu.Unlock()

	var drainErr error
	if started {
		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			drainErr = ctx.Err()
			d.cancel()
			<-done
		}
		d.cancel()
	} else if pending := len(d.jobs); pending > 0 {
		d.logger.Warn("dispatcher stopped before start, dropping events", slog.Int("pending", pending))
	}

	if err := d.publisher.Close(); err != nil {
		return errors.Join(drainErr, err)
	}
	return drainErr
}

func (d *EventDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for j := range d.jobs {
		d.publish(ctx, j)
	}
}

func (d *EventDispatcher) publish(ctx context.Context, j job) {
	if j.span.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, j.span)
	}
	pubCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.publisher.Publish(pubCtx, j.event); err != nil {
		d.logger.Error("publish event failed",
			slog.String("event_id", j.event.ID),
			slog.String("event_kind", string(j.event.Kind)),
			slog.String("order_id", j.event.OrderID),
			slog.String("error", err.Error()),
		)
		return
	}
	d.logger.Debug("event published",
		slog.String("event_id", j.event.ID),
		slog.String("event_kind", string(j.event.Kind)),
	)
}

// LogPublisher writes events to the application log. It stands in for a
// broker when none is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the notification.
func (p *LogPublisher) Publish(ctx context.Context, event model.Event) error {
	p.logger.InfoContext(ctx, "notification",
		slog.String("event_id", event.ID),
		slog.String("user_id", event.UserID),
		slog.String("event_kind", string(event.Kind)),
		slog.String("order_id", event.OrderID),
		slog.String("title", event.Title),
		slog.String("message", event.Message),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }

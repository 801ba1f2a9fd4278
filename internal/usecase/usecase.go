package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

var tracer = otel.Tracer("github.com/polkiloo/marketplace/internal/usecase")

// EventSink accepts notification requests. Emit must not block on delivery.
type EventSink interface {
	Emit(ctx context.Context, event model.Event) error
}

// IdempotencyStore deduplicates order creation per buyer and client key.
type IdempotencyStore interface {
	// Begin claims key. It returns fresh=true when the caller now owns the key,
	// or the id of the order a previous request already created. A request that
	// is still running yields ErrRequestInFlight.
	Begin(ctx context.Context, buyerID, key string) (orderID string, fresh bool, err error)
	Complete(ctx context.Context, buyerID, key, orderID string) error
	Abandon(ctx context.Context, buyerID, key string) error
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

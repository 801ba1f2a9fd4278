package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// InventoryLedger is the only writer of product stock.
type InventoryLedger struct {
	products repository.ProductRepository
	log      *slog.Logger
}

// NewInventoryLedger constructs InventoryLedger.
func NewInventoryLedger(products repository.ProductRepository, log *slog.Logger) *InventoryLedger {
	return &InventoryLedger{products: products, log: log}
}

// Reserve decrements stock for every line or for none of them. Lines are
// applied in input order; the first failing line is reported in a StockError
// after the already applied lines have been put back.
func (l *InventoryLedger) Reserve(ctx context.Context, lines []model.StockLine) (err error) {
	ctx, span := tracer.Start(ctx, "InventoryLedger.Reserve", trace.WithAttributes(attribute.Int("stock.lines", len(lines))))
	defer func() { endSpan(span, err) }()

	for _, line := range lines {
		if line.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
	}

	applied := make([]model.StockLine, 0, len(lines))
	for _, line := range lines {
		if decErr := l.products.Decrement(ctx, line.ProductID, line.Quantity); decErr != nil {
			failure := reserveFailure(line.ProductID, decErr)
			if undoErr := l.unwind(ctx, applied); undoErr != nil {
				return errors.Join(failure, undoErr)
			}
			return failure
		}
		applied = append(applied, line)
	}
	return nil
}

// Release puts stock back for every line. Products that no longer exist are skipped.
func (l *InventoryLedger) Release(ctx context.Context, lines []model.StockLine) (err error) {
	ctx, span := tracer.Start(ctx, "InventoryLedger.Release", trace.WithAttributes(attribute.Int("stock.lines", len(lines))))
	defer func() { endSpan(span, err) }()

	var errs []error
	for _, line := range lines {
		incErr := l.products.Increment(ctx, line.ProductID, line.Quantity)
		switch {
		case incErr == nil:
		case errors.Is(incErr, domainErrors.ErrProductNotFound):
			l.log.Warn("release skipped missing product",
				slog.String("product_id", line.ProductID),
				slog.Int("quantity", line.Quantity),
			)
		default:
			errs = append(errs, incErr)
		}
	}
	if len(errs) > 0 {
		return &domainErrors.DependencyError{Op: "release stock", Err: errors.Join(errs...)}
	}
	return nil
}

func (l *InventoryLedger) unwind(ctx context.Context, applied []model.StockLine) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		line := applied[i]
		if err := l.products.Increment(ctx, line.ProductID, line.Quantity); err != nil {
			l.log.Error("failed to unwind reservation",
				slog.String("product_id", line.ProductID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &domainErrors.DependencyError{Op: "unwind reservation", Err: errors.Join(errs...)}
	}
	return nil
}

func reserveFailure(productID string, err error) error {
	switch {
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return &domainErrors.StockError{ProductID: productID, Err: domainErrors.ErrInsufficientStock}
	case errors.Is(err, domainErrors.ErrProductNotFound):
		return &domainErrors.StockError{ProductID: productID, Err: domainErrors.ErrProductNotFound}
	default:
		return domainErrors.Dependency("reserve stock", err)
	}
}

package repository

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// ProductRepository is the product directory. Stock only changes through
// Decrement and Increment, each a single atomic statement.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	// Decrement lowers stock by qty only if at least qty is available.
	// It returns ErrInsufficientStock or ErrProductNotFound otherwise.
	Decrement(ctx context.Context, id string, qty int) error
	Increment(ctx context.Context, id string, qty int) error
}

package repository

import (
	"context"
	"time"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create inserts a new order with its lines. An existing id yields ErrAlreadyExists.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error)
	// UpdateStatus moves the order to next only while it is still in expected.
	// A mismatch yields ErrStaleStatus.
	UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus, at time.Time) error
	HasDeliveredPurchase(ctx context.Context, buyerID, productID string) (bool, error)
}

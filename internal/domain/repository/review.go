package repository

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// ReviewRepository stores product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID string) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]model.Review, error)
	ListByUser(ctx context.Context, userID string) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	RatingSummary(ctx context.Context, productID string) (model.RatingSummary, error)
}

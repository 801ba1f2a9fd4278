package handlers

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, buyerID string, draft model.OrderDraft) (*model.Order, error)
	GetOrder(ctx context.Context, orderID, callerID string) (*model.Order, error)
	BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error)
	SellerOrders(ctx context.Context, sellerID string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, callerID string, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID, callerID string) (*model.Order, error)
}

// ReviewFacade provides review related operations.
type ReviewFacade interface {
	ReviewEligibility(ctx context.Context, productID, userID string) (model.ReviewEligibility, error)
	CreateReview(ctx context.Context, userID string, draft model.ReviewDraft) (*model.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID string, patch model.ReviewPatch) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID string) error
	ProductReviews(ctx context.Context, productID string) ([]model.Review, error)
	UserReviews(ctx context.Context, userID string) ([]model.Review, error)
	ProductRating(ctx context.Context, productID string) (model.RatingSummary, error)
}

// ProductFacade exposes the product directory.
type ProductFacade interface {
	CreateProduct(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
}

// HealthFacade reports readiness of backing storage.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	AuthFacade
	OrderFacade
	ReviewFacade
	ProductFacade
	HealthFacade
}

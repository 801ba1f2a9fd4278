package app

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// StorageProbe reports whether backing storage is reachable.
type StorageProbe interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade adapts use cases to the shape handlers consume.
type MarketplaceFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	reviews  *usecase.ReviewUseCase
	products *usecase.ProductUseCase
	probe    StorageProbe
}

func NewMarketplaceFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	reviews *usecase.ReviewUseCase,
	products *usecase.ProductUseCase,
	probe StorageProbe,
) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, orders: orders, reviews: reviews, products: products, probe: probe}
}

func (f *MarketplaceFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *MarketplaceFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) CreateOrder(ctx context.Context, buyerID string, draft model.OrderDraft) (*model.Order, error) {
	return f.orders.CreateOrder(ctx, buyerID, draft)
}

func (f *MarketplaceFacade) GetOrder(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	return f.orders.GetOrder(ctx, orderID, callerID)
}

func (f *MarketplaceFacade) BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error) {
	return f.orders.ListByBuyer(ctx, buyerID)
}

func (f *MarketplaceFacade) SellerOrders(ctx context.Context, sellerID string) ([]model.Order, error) {
	return f.orders.ListBySeller(ctx, sellerID)
}

func (f *MarketplaceFacade) UpdateOrderStatus(ctx context.Context, orderID, callerID string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, orderID, callerID, status)
}

func (f *MarketplaceFacade) CancelOrder(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	return f.orders.Cancel(ctx, orderID, callerID)
}

func (f *MarketplaceFacade) ReviewEligibility(ctx context.Context, productID, userID string) (model.ReviewEligibility, error) {
	return f.reviews.CheckEligibility(ctx, productID, userID)
}

func (f *MarketplaceFacade) CreateReview(ctx context.Context, userID string, draft model.ReviewDraft) (*model.Review, error) {
	return f.reviews.Create(ctx, userID, draft)
}

func (f *MarketplaceFacade) UpdateReview(ctx context.Context, reviewID, userID string, patch model.ReviewPatch) (*model.Review, error) {
	return f.reviews.Update(ctx, reviewID, userID, patch)
}

func (f *MarketplaceFacade) DeleteReview(ctx context.Context, reviewID, userID string) error {
	return f.reviews.Delete(ctx, reviewID, userID)
}

func (f *MarketplaceFacade) ProductReviews(ctx context.Context, productID string) ([]model.Review, error) {
	return f.reviews.ListByProduct(ctx, productID)
}

func (f *MarketplaceFacade) UserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	return f.reviews.ListByUser(ctx, userID)
}

func (f *MarketplaceFacade) ProductRating(ctx context.Context, productID string) (model.RatingSummary, error) {
	return f.reviews.Rating(ctx, productID)
}

func (f *MarketplaceFacade) CreateProduct(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error) {
	return f.products.Create(ctx, sellerID, draft)
}

func (f *MarketplaceFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *MarketplaceFacade) Health(ctx context.Context) error {
	return f.probe.HealthCheck(ctx)
}

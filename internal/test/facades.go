package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// SampleOrder builds a two-seller order used across HTTP tests.
func SampleOrder(id, buyerID string) *model.Order {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.Order{
		ID:      id,
		Number:  "ORD-1-1000",
		BuyerID: buyerID,
		Items: []model.OrderLine{
			{ProductID: "A", ProductTitle: "Lamp", Quantity: 2, Price: decimal.RequireFromString("10.50"), SellerID: "seller-1"},
			{ProductID: "B", ProductTitle: "Desk", Quantity: 1, Price: decimal.RequireFromString("99"), SellerID: "seller-2"},
		},
		ShippingAddress: model.ShippingAddress{FullName: "Jo", AddressLine1: "Main 1", City: "Delft", PostalCode: "2611", Country: "NL"},
		PaymentMethod:   "card",
		Status:          model.OrderStatusPending,
		Subtotal:        decimal.RequireFromString("120"),
		ShippingCost:    decimal.RequireFromString("5"),
		TaxAmount:       decimal.RequireFromString("1.25"),
		TotalAmount:     decimal.RequireFromString("126.25"),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, string, model.OrderDraft) (*model.Order, error)
	GetFn          func(context.Context, string, string) (*model.Order, error)
	BuyerOrdersFn  func(context.Context, string) ([]model.Order, error)
	SellerOrdersFn func(context.Context, string) ([]model.Order, error)
	UpdateFn       func(context.Context, string, string, model.OrderStatus) (*model.Order, error)
	CancelFn       func(context.Context, string, string) (*model.Order, error)
}

// CreateOrder delegates to provided function or returns a sample order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, buyerID string, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, buyerID, draft)
	}
	return SampleOrder("order-1", buyerID), nil
}

// GetOrder returns configured order.
func (s OrderFacadeStub) GetOrder(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, orderID, callerID)
	}
	return SampleOrder(orderID, callerID), nil
}

// BuyerOrders returns predefined orders for given buyer.
func (s OrderFacadeStub) BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error) {
	if s.BuyerOrdersFn != nil {
		return s.BuyerOrdersFn(ctx, buyerID)
	}
	return []model.Order{*SampleOrder("order-1", buyerID)}, nil
}

// SellerOrders returns predefined orders for given seller.
func (s OrderFacadeStub) SellerOrders(ctx context.Context, sellerID string) ([]model.Order, error) {
	if s.SellerOrdersFn != nil {
		return s.SellerOrdersFn(ctx, sellerID)
	}
	return []model.Order{*SampleOrder("order-1", "buyer-1")}, nil
}

// UpdateOrderStatus returns the order in the requested status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, orderID, callerID string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, callerID, status)
	}
	order := SampleOrder(orderID, "buyer-1")
	order.Status = status
	return order, nil
}

// CancelOrder returns the order as cancelled.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, callerID)
	}
	order := SampleOrder(orderID, callerID)
	order.Status = model.OrderStatusCancelled
	return order, nil
}

// ReviewFacadeStub simulates review operations.
type ReviewFacadeStub struct {
	EligibilityFn    func(context.Context, string, string) (model.ReviewEligibility, error)
	CreateFn         func(context.Context, string, model.ReviewDraft) (*model.Review, error)
	UpdateFn         func(context.Context, string, string, model.ReviewPatch) (*model.Review, error)
	DeleteFn         func(context.Context, string, string) error
	ProductReviewsFn func(context.Context, string) ([]model.Review, error)
	UserReviewsFn    func(context.Context, string) ([]model.Review, error)
	RatingFn         func(context.Context, string) (model.RatingSummary, error)
}

// ReviewEligibility returns configured eligibility or an eligible result.
func (s ReviewFacadeStub) ReviewEligibility(ctx context.Context, productID, userID string) (model.ReviewEligibility, error) {
	if s.EligibilityFn != nil {
		return s.EligibilityFn(ctx, productID, userID)
	}
	return model.ReviewEligibility{CanReview: true, HasPurchased: true}, nil
}

// CreateReview returns the stored review.
func (s ReviewFacadeStub) CreateReview(ctx context.Context, userID string, draft model.ReviewDraft) (*model.Review, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, draft)
	}
	return &model.Review{ID: "review-1", ProductID: draft.ProductID, UserID: userID, Rating: draft.Rating, Text: draft.Text}, nil
}

// UpdateReview returns the updated review.
func (s ReviewFacadeStub) UpdateReview(ctx context.Context, reviewID, userID string, patch model.ReviewPatch) (*model.Review, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, reviewID, userID, patch)
	}
	rv := &model.Review{ID: reviewID, ProductID: "A", UserID: userID, Rating: patch.Rating}
	if patch.Text != nil {
		rv.Text = *patch.Text
	}
	return rv, nil
}

// DeleteReview executes configured handler.
func (s ReviewFacadeStub) DeleteReview(ctx context.Context, reviewID, userID string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, reviewID, userID)
	}
	return nil
}

// ProductReviews returns preconfigured reviews.
func (s ReviewFacadeStub) ProductReviews(ctx context.Context, productID string) ([]model.Review, error) {
	if s.ProductReviewsFn != nil {
		return s.ProductReviewsFn(ctx, productID)
	}
	return []model.Review{{ID: "review-1", ProductID: productID, UserID: "user-1", Rating: 5}}, nil
}

// UserReviews returns preconfigured reviews.
func (s ReviewFacadeStub) UserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	if s.UserReviewsFn != nil {
		return s.UserReviewsFn(ctx, userID)
	}
	return []model.Review{{ID: "review-1", ProductID: "A", UserID: userID, Rating: 4}}, nil
}

// ProductRating returns a configured summary.
func (s ReviewFacadeStub) ProductRating(ctx context.Context, productID string) (model.RatingSummary, error) {
	if s.RatingFn != nil {
		return s.RatingFn(ctx, productID)
	}
	return model.RatingSummary{ProductID: productID, Average: 4.5, Count: 2}, nil
}

// ProductFacadeStub simulates product directory operations.
type ProductFacadeStub struct {
	CreateFn func(context.Context, string, model.ProductDraft) (*model.Product, error)
	GetFn    func(context.Context, string) (*model.Product, error)
}

// CreateProduct returns the registered product.
func (s ProductFacadeStub) CreateProduct(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sellerID, draft)
	}
	return &model.Product{ID: "product-1", SellerID: sellerID, Title: draft.Title, Price: draft.Price, Stock: draft.Stock}, nil
}

// Product returns a configured product.
func (s ProductFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Product{ID: id, SellerID: "seller-1", Title: "Lamp", Price: decimal.RequireFromString("10.50"), Stock: 3}, nil
}

// MarketplaceFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketplaceFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	ReviewFacadeStub
	ProductFacadeStub
	HealthFn func(context.Context) error
}

// Health returns configured readiness result.
func (s MarketplaceFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/statemachine"
	testhelpers "github.com/polkiloo/marketplace/internal/test"
	"github.com/polkiloo/marketplace/internal/usecase"
)

type probeStub struct{ err error }

func (p probeStub) HealthCheck(context.Context) error { return p.err }

func newFacade(probe StorageProbe) (*MarketplaceFacade, *testhelpers.MemoryStore, *testhelpers.EventSinkStub) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := testhelpers.NewMemoryStore()
	events := &testhelpers.EventSinkStub{}

	strategy := testhelpers.StrategyStub{ParseFn: func(string) (string, error) { return "user-99", nil }}
	authUC := usecase.NewAuthUseCase(store.Users(), testhelpers.HasherStub{}, strategy)
	ledger := usecase.NewInventoryLedger(store.Products(), logger)
	orderUC := usecase.NewOrderUseCase(store.Orders(), ledger, statemachine.New(statemachine.Policy{}), events,
		testhelpers.NewIdempotencyStoreStub(), logger, usecase.OrderOptions{StatusRetries: 1})
	reviewUC := usecase.NewReviewUseCase(store.Reviews(), store.Orders(), logger)
	productUC := usecase.NewProductUseCase(store.Products())

	return NewMarketplaceFacade(authUC, orderUC, reviewUC, productUC, probe), store, events
}

func TestMarketplaceFacadeAuth(t *testing.T) {
	facade, store, _ := newFacade(probeStub{})
	token, err := facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	stored, err := store.Users().GetByLogin(context.Background(), "user")
	if err != nil || stored.Login != "user" {
		t.Fatalf("user not stored: %+v err=%v", stored, err)
	}
	if token != "token-"+stored.ID {
		t.Fatalf("unexpected token %q", token)
	}

	if _, err := facade.Authenticate(context.Background(), "user", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	id, err := facade.ParseToken("anything")
	if err != nil || id != "user-99" {
		t.Fatalf("unexpected parse result %q err=%v", id, err)
	}
}

func TestMarketplaceFacadeOrderAndReviewFlow(t *testing.T) {
	ctx := context.Background()
	facade, store, events := newFacade(probeStub{})

	product, err := facade.CreateProduct(ctx, "seller-1", model.ProductDraft{Title: "Lamp", Price: decimal.NewFromInt(10), Stock: 3})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if got, err := facade.Product(ctx, product.ID); err != nil || got.Stock != 3 {
		t.Fatalf("unexpected product %+v err=%v", got, err)
	}

	order, err := facade.CreateOrder(ctx, "buyer-1", model.OrderDraft{
		Items:           []model.OrderLine{{ProductID: product.ID, ProductTitle: "Lamp", Quantity: 2, Price: decimal.NewFromInt(10), SellerID: "seller-1"}},
		ShippingAddress: model.ShippingAddress{FullName: "Jo", AddressLine1: "Main 1", City: "Delft", PostalCode: "2611", Country: "NL"},
		PaymentMethod:   "card",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if store.Stock(product.ID) != 1 {
		t.Fatalf("expected stock 1 after reservation, got %d", store.Stock(product.ID))
	}

	if got, err := facade.GetOrder(ctx, order.ID, "seller-1"); err != nil || got.ID != order.ID {
		t.Fatalf("seller should see order: %+v err=%v", got, err)
	}
	if list, err := facade.BuyerOrders(ctx, "buyer-1"); err != nil || len(list) != 1 {
		t.Fatalf("unexpected buyer orders %d err=%v", len(list), err)
	}
	if list, err := facade.SellerOrders(ctx, "seller-1"); err != nil || len(list) != 1 {
		t.Fatalf("unexpected seller orders %d err=%v", len(list), err)
	}

	if elig, err := facade.ReviewEligibility(ctx, product.ID, "buyer-1"); err != nil || elig.CanReview {
		t.Fatalf("review must wait for delivery: %+v err=%v", elig, err)
	}

	if _, err := facade.UpdateOrderStatus(ctx, order.ID, "seller-1", model.OrderStatusDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if _, err := facade.CancelOrder(ctx, order.ID, "buyer-1"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected delivered order to refuse cancel, got %v", err)
	}

	review, err := facade.CreateReview(ctx, "buyer-1", model.ReviewDraft{ProductID: product.ID, Rating: 4, Text: "good"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	text := "better"
	if updated, err := facade.UpdateReview(ctx, review.ID, "buyer-1", model.ReviewPatch{Rating: 5, Text: &text}); err != nil || updated.Text != "better" {
		t.Fatalf("unexpected update %+v err=%v", updated, err)
	}
	if list, err := facade.ProductReviews(ctx, product.ID); err != nil || len(list) != 1 {
		t.Fatalf("unexpected product reviews %d err=%v", len(list), err)
	}
	if list, err := facade.UserReviews(ctx, "buyer-1"); err != nil || len(list) != 1 {
		t.Fatalf("unexpected user reviews %d err=%v", len(list), err)
	}
	if summary, err := facade.ProductRating(ctx, product.ID); err != nil || summary.Count != 1 || summary.Average != 5 {
		t.Fatalf("unexpected rating %+v err=%v", summary, err)
	}
	if err := facade.DeleteReview(ctx, review.ID, "buyer-1"); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	if len(events.Events()) == 0 {
		t.Fatal("expected lifecycle events to be emitted")
	}
}

func TestMarketplaceFacadeCancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	facade, store, _ := newFacade(probeStub{})
	store.SeedProduct("A", "seller-1", 5)

	order, err := facade.CreateOrder(ctx, "buyer-1", model.OrderDraft{
		Items:           []model.OrderLine{{ProductID: "A", Quantity: 5, Price: decimal.NewFromInt(1), SellerID: "seller-1"}},
		ShippingAddress: model.ShippingAddress{FullName: "Jo", AddressLine1: "Main 1", City: "Delft", PostalCode: "2611", Country: "NL"},
		PaymentMethod:   "card",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	cancelled, err := facade.CancelOrder(ctx, order.ID, "buyer-1")
	if err != nil || cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected cancel %+v err=%v", cancelled, err)
	}
	if store.Stock("A") != 5 {
		t.Fatalf("expected stock restored to 5, got %d", store.Stock("A"))
	}
}

func TestMarketplaceFacadeHealth(t *testing.T) {
	facade, _, _ := newFacade(probeStub{})
	if err := facade.Health(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}

	down := errors.New("down")
	facade, _, _ = newFacade(probeStub{err: down})
	if err := facade.Health(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

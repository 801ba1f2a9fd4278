package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/domain/statemachine"
)

// OrderOptions tunes the lifecycle service.
type OrderOptions struct {
	// StatusRetries bounds how often a lost compare-and-swap is retried.
	StatusRetries int
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	ledger  *InventoryLedger
	machine *statemachine.Machine
	events  EventSink
	idem    IdempotencyStore
	log     *slog.Logger
	retries int

	now       func() time.Time
	newNumber func(time.Time) string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	ledger *InventoryLedger,
	machine *statemachine.Machine,
	events EventSink,
	idem IdempotencyStore,
	log *slog.Logger,
	opts OrderOptions,
) *OrderUseCase {
	retries := opts.StatusRetries
	if retries < 0 {
		retries = 0
	}
	return &OrderUseCase{
		orders:    orders,
		ledger:    ledger,
		machine:   machine,
		events:    events,
		idem:      idem,
		log:       log,
		retries:   retries,
		now:       func() time.Time { return time.Now().UTC() },
		newNumber: orderNumber,
	}
}

func orderNumber(at time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", at.UnixMilli(), 1000+rand.IntN(9000))
}

// CreateOrder reserves stock for every line and stores a PENDING order.
// Either the order exists with its stock reserved, or nothing changed.
func (u *OrderUseCase) CreateOrder(ctx context.Context, buyerID string, draft model.OrderDraft) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUseCase.CreateOrder", trace.WithAttributes(
		attribute.String("buyer.id", buyerID),
		attribute.Int("order.lines", len(draft.Items)),
	))
	defer func() { endSpan(span, err) }()

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(draft.IdempotencyKey)
	if key != "" {
		existingID, fresh, idemErr := u.idem.Begin(ctx, buyerID, key)
		switch {
		case errors.Is(idemErr, domainErrors.ErrRequestInFlight):
			return nil, idemErr
		case idemErr != nil:
			u.log.Warn("idempotency store unavailable, creating without deduplication",
				slog.String("buyer_id", buyerID),
				slog.String("error", idemErr.Error()),
			)
			key = ""
		case !fresh:
			span.SetAttributes(attribute.Bool("order.replayed", true))
			order, getErr := u.orders.GetByID(ctx, existingID)
			if getErr != nil {
				return nil, domainErrors.Dependency("load replayed order", getErr)
			}
			if !order.Matches(draft) {
				return nil, domainErrors.ErrIdempotencyReused
			}
			return order, nil
		}
	}

	order := u.buildOrder(buyerID, draft)
	lines := order.StockLines()

	if err := u.ledger.Reserve(ctx, lines); err != nil {
		u.abandon(ctx, buyerID, key)
		return nil, err
	}

	if createErr := u.orders.Create(ctx, order); createErr != nil {
		err := domainErrors.Dependency("create order", createErr)
		if relErr := u.ledger.Release(ctx, lines); relErr != nil {
			u.log.Error("failed to release stock after order insert failure",
				slog.String("order_id", order.ID),
				slog.String("error", relErr.Error()),
			)
			err = errors.Join(err, relErr)
		}
		u.abandon(ctx, buyerID, key)
		return nil, err
	}

	if key != "" {
		if err := u.idem.Complete(ctx, buyerID, key, order.ID); err != nil {
			u.log.Warn("failed to record idempotency key",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	u.log.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("buyer_id", buyerID),
		slog.Int("lines", len(order.Items)),
	)

	for _, sellerID := range order.SellerIDs() {
		u.emit(ctx, order, sellerID, model.EventNewOrder)
	}

	return order, nil
}

// GetOrder returns the order when the caller is its buyer or one of its sellers.
func (u *OrderUseCase) GetOrder(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	order, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Authorize(order, callerID, statemachine.ActionView); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (u *OrderUseCase) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	orders, err := u.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, domainErrors.Dependency("list buyer orders", err)
	}
	return orders, nil
}

// ListBySeller returns every order holding at least one line of the seller, newest first.
func (u *OrderUseCase) ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error) {
	orders, err := u.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, domainErrors.Dependency("list seller orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order forward on behalf of one of its sellers.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID, callerID string, status model.OrderStatus) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUseCase.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status.requested", string(status)),
	))
	defer func() { endSpan(span, err) }()

	if _, ok := model.ParseOrderStatus(string(status)); !ok {
		return nil, domainErrors.ErrInvalidStatus
	}

	for attempt := 0; ; attempt++ {
		order, err := u.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := statemachine.Authorize(order, callerID, statemachine.ActionAdvance); err != nil {
			return nil, err
		}
		// Terminal orders reject every target, CANCELLED included, before the
		// buyer-only cancel rule applies.
		if u.machine.IsTerminal(order.Status) {
			return nil, &domainErrors.TransitionError{From: string(order.Status), To: string(status)}
		}
		if status == model.OrderStatusCancelled {
			return nil, domainErrors.ErrNotOrderBuyer
		}
		if err := u.machine.Validate(order.Status, status); err != nil {
			return nil, err
		}

		at := u.now()
		casErr := u.orders.UpdateStatus(ctx, order.ID, order.Status, status, at)
		if casErr == nil {
			previous := order.Status
			order.Status = status
			order.UpdatedAt = at
			u.log.Info("order status updated",
				slog.String("order_id", order.ID),
				slog.String("seller_id", callerID),
				slog.String("from", string(previous)),
				slog.String("to", string(status)),
			)
			u.emit(ctx, order, order.BuyerID, model.StatusEventKind(status))
			return order, nil
		}
		if !errors.Is(casErr, domainErrors.ErrStaleStatus) {
			return nil, domainErrors.Dependency("update order status", casErr)
		}
		if attempt >= u.retries {
			return nil, &domainErrors.TransitionError{From: string(order.Status), To: string(status)}
		}
		u.log.Debug("order status changed concurrently, retrying",
			slog.String("order_id", order.ID),
			slog.Int("attempt", attempt+1),
		)
	}
}

// Cancel cancels the order on behalf of its buyer and restores the reserved stock.
// Only the request that wins the status change releases stock. When the release
// fails after the order is already CANCELLED, the cancelled order is returned
// together with the dependency error; the unreleased lines are logged with the
// order id and must be reconciled by an operator, since a repeated cancel is an
// invalid transition.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, callerID string) (_ *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUseCase.Cancel", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer func() { endSpan(span, err) }()

	for attempt := 0; ; attempt++ {
		order, err := u.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := statemachine.Authorize(order, callerID, statemachine.ActionCancel); err != nil {
			return nil, err
		}
		if err := u.machine.ValidateCancel(order.Status); err != nil {
			return nil, err
		}

		at := u.now()
		casErr := u.orders.UpdateStatus(ctx, order.ID, order.Status, model.OrderStatusCancelled, at)
		if errors.Is(casErr, domainErrors.ErrStaleStatus) {
			if attempt >= u.retries {
				return nil, &domainErrors.TransitionError{From: string(order.Status), To: string(model.OrderStatusCancelled)}
			}
			continue
		}
		if casErr != nil {
			return nil, domainErrors.Dependency("cancel order", casErr)
		}

		order.Status = model.OrderStatusCancelled
		order.UpdatedAt = at

		relErr := u.ledger.Release(ctx, order.StockLines())
		if relErr != nil {
			u.log.Error("order cancelled but stock was not fully released",
				slog.String("order_id", order.ID),
				slog.String("error", relErr.Error()),
			)
		} else {
			u.log.Info("order cancelled", slog.String("order_id", order.ID))
		}

		for _, sellerID := range order.SellerIDs() {
			u.emit(ctx, order, sellerID, model.EventOrderCancelled)
		}

		if relErr != nil {
			return order, relErr
		}
		return order, nil
	}
}

func (u *OrderUseCase) load(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, domainErrors.Dependency("load order", err)
	}
	return order, nil
}

func (u *OrderUseCase) abandon(ctx context.Context, buyerID, key string) {
	if key == "" {
		return
	}
	if err := u.idem.Abandon(ctx, buyerID, key); err != nil {
		u.log.Warn("failed to release idempotency key",
			slog.String("buyer_id", buyerID),
			slog.String("error", err.Error()),
		)
	}
}

func (u *OrderUseCase) emit(ctx context.Context, order *model.Order, recipient string, kind model.EventKind) {
	label := order.ShortLabel()
	title, message := model.Describe(kind, label, order.Status)
	event := model.Event{
		ID:         uuid.NewString(),
		UserID:     recipient,
		Kind:       kind,
		OrderID:    order.ID,
		ShortLabel: label,
		Title:      title,
		Message:    message,
		OccurredAt: u.now(),
	}
	if err := u.events.Emit(ctx, event); err != nil {
		u.log.Warn("failed to emit order event",
			slog.String("order_id", order.ID),
			slog.String("event_kind", string(kind)),
			slog.String("user_id", recipient),
			slog.String("error", err.Error()),
		)
	}
}

func (u *OrderUseCase) buildOrder(buyerID string, draft model.OrderDraft) *model.Order {
	now := u.now()
	items := append([]model.OrderLine(nil), draft.Items...)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	return &model.Order{
		ID:              uuid.NewString(),
		Number:          u.newNumber(now),
		BuyerID:         buyerID,
		Items:           items,
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		Status:          model.OrderStatusPending,
		Subtotal:        subtotal,
		ShippingCost:    draft.ShippingCost,
		TaxAmount:       draft.TaxAmount,
		TotalAmount:     subtotal.Add(draft.ShippingCost).Add(draft.TaxAmount),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func validateDraft(draft model.OrderDraft) error {
	if len(draft.Items) == 0 {
		return domainErrors.ErrEmptyOrder
	}
	for _, item := range draft.Items {
		if item.ProductID == "" || item.SellerID == "" {
			return domainErrors.ErrInvalidLine
		}
		if item.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return domainErrors.ErrInvalidPrice
		}
	}
	if draft.ShippingCost.IsNegative() || draft.TaxAmount.IsNegative() {
		return domainErrors.ErrInvalidAmount
	}
	if !draft.ShippingAddress.Complete() {
		return domainErrors.ErrInvalidAddress
	}
	if strings.TrimSpace(draft.PaymentMethod) == "" {
		return domainErrors.ErrInvalidPayment
	}
	return nil
}

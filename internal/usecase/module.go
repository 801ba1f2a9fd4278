package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/domain/statemachine"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewProductUseCase,
	NewReviewUseCase,
	NewInventoryLedger,
	newStateMachine,
	newOrderUseCase,
)

func newStateMachine(cfg *config.Config) *statemachine.Machine {
	return statemachine.New(statemachine.Policy{StrictSteps: cfg.StrictTransitions})
}

type orderParams struct {
	fx.In

	Config  *config.Config
	Orders  repository.OrderRepository
	Ledger  *InventoryLedger
	Machine *statemachine.Machine
	Events  EventSink
	Idem    IdempotencyStore
	Logger  *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Ledger, p.Machine, p.Events, p.Idem, p.Logger, OrderOptions{
		StatusRetries: p.Config.StatusRetries,
	})
}

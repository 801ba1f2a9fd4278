package statemachine

import (
	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

// Action is what a caller attempts to do with an order.
type Action int

const (
	ActionView Action = iota
	ActionAdvance
	ActionCancel
)

// Authorize checks the caller relationship required by action. It says nothing
// about whether the status change itself is legal.
func Authorize(order *model.Order, callerID string, action Action) error {
	switch action {
	case ActionView:
		if order.BuyerID == callerID || order.HasSeller(callerID) {
			return nil
		}
		return domainErrors.ErrNotOrderParticipant
	case ActionAdvance:
		if order.HasSeller(callerID) {
			return nil
		}
		return domainErrors.ErrNotOrderSeller
	case ActionCancel:
		if order.BuyerID == callerID {
			return nil
		}
		return domainErrors.ErrNotOrderBuyer
	default:
		return domainErrors.ErrForbidden
	}
}

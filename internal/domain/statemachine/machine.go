// Package statemachine defines which order status changes are legal and who may request them.
package statemachine

import (
	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

// Forward is the order progression. Position in this slice, not the status
// value, decides what counts as moving forward.
var Forward = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusConfirmed,
	model.OrderStatusProcessing,
	model.OrderStatusShipped,
	model.OrderStatusDelivered,
}

// DefaultCancellable lists statuses from which the buyer may still cancel.
var DefaultCancellable = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusConfirmed,
}

// Policy selects the deployment profile of the machine.
type Policy struct {
	// StrictSteps allows only the immediate successor in Forward.
	StrictSteps bool
	// Cancellable overrides DefaultCancellable when non-empty.
	Cancellable []model.OrderStatus
}

// Machine is an immutable transition table.
type Machine struct {
	table       map[model.OrderStatus]map[model.OrderStatus]bool
	cancellable map[model.OrderStatus]bool
}

// New builds the transition table for the given policy.
func New(p Policy) *Machine {
	table := make(map[model.OrderStatus]map[model.OrderStatus]bool, len(Forward)+1)
	for i, from := range Forward {
		next := make(map[model.OrderStatus]bool)
		for j := i + 1; j < len(Forward); j++ {
			if p.StrictSteps && j != i+1 {
				break
			}
			next[Forward[j]] = true
		}
		if from != model.OrderStatusDelivered {
			next[model.OrderStatusCancelled] = true
		}
		table[from] = next
	}
	table[model.OrderStatusCancelled] = map[model.OrderStatus]bool{}

	statuses := p.Cancellable
	if len(statuses) == 0 {
		statuses = DefaultCancellable
	}
	cancellable := make(map[model.OrderStatus]bool, len(statuses))
	for _, s := range statuses {
		cancellable[s] = true
	}

	return &Machine{table: table, cancellable: cancellable}
}

// CanTransition reports whether the table has an edge from -> to.
func (m *Machine) CanTransition(from, to model.OrderStatus) bool {
	return m.table[from][to]
}

// Validate returns a TransitionError when from -> to is not an edge.
func (m *Machine) Validate(from, to model.OrderStatus) error {
	if !m.CanTransition(from, to) {
		return &domainErrors.TransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// ValidateCancel checks the table edge and the cancellation policy.
func (m *Machine) ValidateCancel(from model.OrderStatus) error {
	if err := m.Validate(from, model.OrderStatusCancelled); err != nil {
		return err
	}
	if !m.cancellable[from] {
		return &domainErrors.TransitionError{From: string(from), To: string(model.OrderStatusCancelled)}
	}
	return nil
}

// IsTerminal reports whether no transition leaves status.
func (m *Machine) IsTerminal(status model.OrderStatus) bool {
	return len(m.table[status]) == 0
}

// Next lists the statuses reachable from from, forward chain first.
func (m *Machine) Next(from model.OrderStatus) []model.OrderStatus {
	var out []model.OrderStatus
	for _, s := range Forward {
		if m.table[from][s] {
			out = append(out, s)
		}
	}
	if m.table[from][model.OrderStatusCancelled] {
		out = append(out, model.OrderStatusCancelled)
	}
	return out
}

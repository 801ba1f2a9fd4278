package errors

import (
	"errors"
	"fmt"
)

// Categories. Every domain error unwraps to exactly one of them, so transport
// layers can map a whole family with a single errors.Is check.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("dependency unavailable")
)

var (
	ErrInvalidCredentials = categorized("invalid credentials", ErrValidation)
	ErrEmptyOrder         = categorized("order must contain at least one item", ErrValidation)
	ErrInvalidQuantity    = categorized("item quantity must be positive", ErrValidation)
	ErrInvalidPrice       = categorized("item price must not be negative", ErrValidation)
	ErrInvalidAmount      = categorized("amount must not be negative", ErrValidation)
	ErrInvalidLine        = categorized("item must reference a product and a seller", ErrValidation)
	ErrInvalidAddress     = categorized("shipping address is incomplete", ErrValidation)
	ErrInvalidPayment     = categorized("payment method is required", ErrValidation)
	ErrInvalidStatus      = categorized("unknown order status", ErrValidation)
	ErrInvalidRating      = categorized("rating must be between 1 and 5", ErrValidation)
	ErrInvalidProduct     = categorized("product requires a title, a non-negative price and stock", ErrValidation)
	ErrMissingProductID   = categorized("product id is required", ErrValidation)
	ErrPasswordTooLong    = categorized("password is too long", ErrValidation)

	ErrOrderNotFound   = categorized("order not found", ErrNotFound)
	ErrProductNotFound = categorized("product not found", ErrNotFound)
	ErrReviewNotFound  = categorized("review not found", ErrNotFound)

	ErrNotOrderParticipant = categorized("caller is neither buyer nor seller of the order", ErrForbidden)
	ErrNotOrderSeller      = categorized("only a seller of the order can change its status", ErrForbidden)
	ErrNotOrderBuyer       = categorized("only the buyer can cancel the order", ErrForbidden)
	ErrNotReviewAuthor     = categorized("only the author can change the review", ErrForbidden)
	ErrReviewNotAllowed    = categorized("product was not purchased or not delivered", ErrForbidden)

	ErrAlreadyExists     = categorized("already exists", ErrConflict)
	ErrAlreadyReviewed   = categorized("product already reviewed", ErrConflict)
	ErrInsufficientStock = categorized("insufficient stock", ErrConflict)
	ErrInvalidTransition = categorized("invalid status transition", ErrConflict)
	ErrStaleStatus       = categorized("order status changed concurrently", ErrConflict)
	ErrRequestInFlight   = categorized("request with this idempotency key is still in progress", ErrConflict)
	ErrIdempotencyReused = categorized("idempotency key was already used for a different order", ErrConflict)
)

type categorizedError struct {
	msg      string
	category error
}

func categorized(msg string, category error) error {
	return &categorizedError{msg: msg, category: category}
}

func (e *categorizedError) Error() string { return e.msg }

func (e *categorizedError) Unwrap() error { return e.category }

// StockError names the product that made a reservation fail.
type StockError struct {
	ProductID string
	Err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: product %s", e.Err, e.ProductID)
}

func (e *StockError) Unwrap() error { return e.Err }

// TransitionError reports a rejected status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// DependencyError wraps a failure of storage or another collaborator.
// It matches both ErrDependency and the underlying cause.
type DependencyError struct {
	Op  string
	Err error
}

// Dependency wraps err as a DependencyError unless it is nil or already categorized.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	if Categorized(err) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() []error { return []error{ErrDependency, e.Err} }

// Categorized reports whether err already belongs to one of the categories.
func Categorized(err error) bool {
	for _, c := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrConflict, ErrDependency} {
		if errors.Is(err, c) {
			return true
		}
	}
	return false
}

package model

import "github.com/shopspring/decimal"

// OrderDraft is a checkout request before it becomes an order.
// Amounts are supplied by the caller and are not recomputed beyond the sums.
type OrderDraft struct {
	Items           []OrderLine
	ShippingAddress ShippingAddress
	PaymentMethod   string
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	IdempotencyKey  string
}

// ReviewDraft carries a new review.
type ReviewDraft struct {
	ProductID string
	Rating    int
	Text      string
}

// ReviewPatch changes an existing review. A nil Text keeps the current text.
type ReviewPatch struct {
	Rating int
	Text   *string
}

// ProductDraft registers a product in the directory.
type ProductDraft struct {
	Title string
	Price decimal.Decimal
	Stock int
}

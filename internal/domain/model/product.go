package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a single seller.
type Product struct {
	ID        string
	SellerID  string
	Title     string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

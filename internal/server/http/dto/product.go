package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a product for the calling seller.
type CreateProductRequest struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// ProductResponse represents a catalog entry.
type ProductResponse struct {
	ID        string          `json:"id"`
	SellerID  string          `json:"sellerId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
}

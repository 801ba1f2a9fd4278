package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is a single checkout line. Title, price and seller are
// snapshots taken by the client from the product listing.
type OrderItemRequest struct {
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SellerID     string          `json:"sellerId"`
}

// Address describes shipping destination.
type Address struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress Address            `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingCost    decimal.Decimal    `json:"shippingCost"`
	TaxAmount       decimal.Decimal    `json:"taxAmount"`
}

// UpdateStatusRequest carries the target status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse represents a purchased line.
type OrderItemResponse struct {
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductImage string          `json:"productImage,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SellerID     string          `json:"sellerId"`
}

// OrderResponse represents order details.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	BuyerID         string              `json:"buyerId"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress Address             `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shippingCost"`
	TaxAmount       decimal.Decimal     `json:"taxAmount"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

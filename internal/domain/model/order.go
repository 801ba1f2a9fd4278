package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the lifecycle stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts external input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(raw); s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return s, true
	}
	return "", false
}

// ShippingAddress is captured once at checkout and never edited.
type ShippingAddress struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
	PhoneNumber  string
}

// Complete reports whether the mandatory address fields are filled.
func (a ShippingAddress) Complete() bool {
	return a.FullName != "" && a.AddressLine1 != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

// OrderLine is a purchased product with its price frozen at checkout.
type OrderLine struct {
	ProductID    string
	ProductTitle string
	ProductImage string
	Quantity     int
	Price        decimal.Decimal
	SellerID     string
}

// Total returns price multiplied by quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StockLine is the unit of an inventory reservation.
type StockLine struct {
	ProductID string
	Quantity  int
}

// Order is a buyer purchase that may span several sellers.
type Order struct {
	ID              string
	Number          string
	BuyerID         string
	Items           []OrderLine
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Status          OrderStatus
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SellerIDs returns distinct sellers in order of first appearance.
func (o *Order) SellerIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		ids = append(ids, item.SellerID)
	}
	return ids
}

// HasSeller reports whether sellerID owns at least one line.
func (o *Order) HasSeller(sellerID string) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// ContainsProduct reports whether any line references productID.
func (o *Order) ContainsProduct(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// StockLines projects items onto reservation units, preserving order.
func (o *Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// ShortLabel is the reference shown to people in notifications.
func (o *Order) ShortLabel() string {
	if o.Number != "" {
		return o.Number
	}
	if len(o.ID) > 8 {
		return o.ID[len(o.ID)-8:]
	}
	return o.ID
}

// Matches reports whether draft asks for the same purchase as the order:
// lines (product, seller, quantity, price, in order), address, payment method
// and amounts. Display fields such as titles are ignored.
func (o *Order) Matches(draft OrderDraft) bool {
	if len(o.Items) != len(draft.Items) {
		return false
	}
	for i, item := range o.Items {
		want := draft.Items[i]
		if item.ProductID != want.ProductID || item.SellerID != want.SellerID ||
			item.Quantity != want.Quantity || !item.Price.Equal(want.Price) {
			return false
		}
	}
	return o.ShippingAddress == draft.ShippingAddress &&
		o.PaymentMethod == draft.PaymentMethod &&
		o.ShippingCost.Equal(draft.ShippingCost) &&
		o.TaxAmount.Equal(draft.TaxAmount)
}

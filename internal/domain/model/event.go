package model

import (
	"fmt"
	"time"
)

// EventKind classifies notification requests emitted by the order core.
type EventKind string

const (
	EventOrderPlaced     EventKind = "ORDER_PLACED"
	EventOrderConfirmed  EventKind = "ORDER_CONFIRMED"
	EventOrderProcessing EventKind = "ORDER_PROCESSING"
	EventOrderShipped    EventKind = "ORDER_SHIPPED"
	EventOrderDelivered  EventKind = "ORDER_DELIVERED"
	EventOrderCancelled  EventKind = "ORDER_CANCELLED"
	EventNewOrder        EventKind = "NEW_ORDER"
	EventGeneral         EventKind = "GENERAL"
)

// Event is a fire-and-forget notification request for a single recipient.
type Event struct {
	ID         string
	UserID     string
	Kind       EventKind
	OrderID    string
	ShortLabel string
	Title      string
	Message    string
	OccurredAt time.Time
}

// StatusEventKind maps a status change to the kind sent to the buyer.
func StatusEventKind(status OrderStatus) EventKind {
	switch status {
	case OrderStatusConfirmed:
		return EventOrderConfirmed
	case OrderStatusProcessing:
		return EventOrderProcessing
	case OrderStatusShipped:
		return EventOrderShipped
	case OrderStatusDelivered:
		return EventOrderDelivered
	case OrderStatusCancelled:
		return EventOrderCancelled
	default:
		return EventGeneral
	}
}

// Describe returns the human title and message for a notification.
func Describe(kind EventKind, label string, status OrderStatus) (string, string) {
	switch kind {
	case EventOrderPlaced:
		return "Order Placed", fmt.Sprintf("Your order #%s has been placed.", label)
	case EventOrderConfirmed:
		return "Order Confirmed", fmt.Sprintf("Your order #%s has been confirmed by the seller.", label)
	case EventOrderProcessing:
		return "Order Processing", fmt.Sprintf("Your order #%s is now being processed.", label)
	case EventOrderShipped:
		return "Order Shipped", fmt.Sprintf("Great news! Your order #%s has been shipped.", label)
	case EventOrderDelivered:
		return "Order Delivered", fmt.Sprintf("Your order #%s has been delivered. Enjoy!", label)
	case EventOrderCancelled:
		return "Order Cancelled", fmt.Sprintf("Order #%s has been cancelled.", label)
	case EventNewOrder:
		return "New Order Received", fmt.Sprintf("You have received a new order #%s.", label)
	default:
		return "Order Update", fmt.Sprintf("Order #%s status has been updated to %s.", label, status)
	}
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus maps a client-supplied status string to the enum.
// Matching is case-insensitive; anything outside the enum is rejected.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, s)
	}
}

// Item is a catalog row. Prices live only here; orders re-read them through
// the item relation instead of freezing a copy.
type Item struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

type OrderItem struct {
	ID       int64
	ItemID   int64
	ItemName string
	Price    decimal.Decimal
	Quantity int32
}

type Order struct {
	ID        int64
	UserID    int64
	UserEmail string
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

// TotalAmount is derived, never stored.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.Items {
		total = total.Add(li.Price.Mul(decimal.NewFromInt32(li.Quantity)))
	}
	return total
}

// StatusForPaymentResult implements the saga side of the state machine:
// only the literal status "SUCCESS" completes an order, every other reported
// status cancels it.
func StatusForPaymentResult(paymentStatus string) OrderStatus {
	if paymentStatus == "SUCCESS" {
		return OrderStatusCompleted
	}
	return OrderStatusCancelled
}

// Package events holds the wire contracts shared by the order and payment
// services. Both sides of the saga unmarshal into these structs, so field
// names here are the compatibility boundary between services.
package events

import "github.com/shopspring/decimal"

const (
	OrderCreatedTopic  = "order-created-topic"
	PaymentResultTopic = "payment-result-topic"

	OrderServiceGroup   = "order-service-group"
	PaymentServiceGroup = "payment-service-group"
)

// OrderCreatedEvent is published by the order service once an order row is
// committed. Keyed by the decimal order id so one order's events stay on one
// partition.
type OrderCreatedEvent struct {
	OrderID  int64           `json:"order_id"`
	UserID   int64           `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// PaymentProcessedEvent is published by the payment service after a payment
// decision has been durably recorded.
type PaymentProcessedEvent struct {
	OrderID   int64  `json:"order_id"`
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	// ErrDuplicatePayment is returned when a payment for the same order
	// already exists.
	ErrDuplicatePayment = errors.New("payment for order already exists")
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusSuccess   PaymentStatus = "SUCCESS"
	StatusFailed    PaymentStatus = "FAILED"
	StatusCancelled PaymentStatus = "CANCELLED"
	StatusRefunded  PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusRefunded:
		return StatusRefunded, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
}

type Payment struct {
	ID        int64
	OrderID   int64
	UserID    int64
	Amount    decimal.Decimal
	Currency  string
	Status    PaymentStatus
	CreatedAt time.Time
}

// ClassifyOutcome maps an oracle draw to a payment status. An even number
// means the payment went through, an odd one means it was declined. When the
// oracle could not be reached the payment fails closed.
func ClassifyOutcome(number int64, err error) PaymentStatus {
	if err != nil {
		return StatusFailed
	}
	if number%2 == 0 {
		return StatusSuccess
	}
	return StatusFailed
}

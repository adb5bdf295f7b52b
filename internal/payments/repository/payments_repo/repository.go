package payments_repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"shop/internal/payments/domain"
)

type PaymentRepository interface {
	// Create inserts the payment and returns its generated ID.
	// domain.ErrDuplicatePayment is returned when a payment for the same
	// order already exists.
	Create(ctx context.Context, payment *domain.Payment) (int64, error)
	GetByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Payment, error)
	GetByStatuses(ctx context.Context, statuses []domain.PaymentStatus) ([]*domain.Payment, error)
	// TotalSum returns the sum of successful payment amounts in the given
	// currency created within [start, end].
	TotalSum(ctx context.Context, start, end time.Time, currency string) (decimal.Decimal, error)
}

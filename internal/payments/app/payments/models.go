package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type TotalSumResponse struct {
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
}

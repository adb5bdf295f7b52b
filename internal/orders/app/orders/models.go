package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"shop/internal/orders/client/userclient"
)

type OrderItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int32 `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID    int64              `json:"user_id"`
	UserEmail string             `json:"user_email"`
	Items     []OrderItemRequest `json:"items"`
}

type OrderUpdateRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ItemID   int64           `json:"item_id"`
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	UserEmail   string              `json:"user_email"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
	User        *userclient.User    `json:"user,omitempty"`
}

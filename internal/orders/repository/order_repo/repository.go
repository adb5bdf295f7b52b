package order_repo

import (
	"context"

	"shop/internal/orders/domain"
)

type OrderRepository interface {
	// CreateOrder inserts the order and its line items in one transaction
	// and returns the generated order id.
	CreateOrder(ctx context.Context, order *domain.Order) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrdersByIDs(ctx context.Context, ids []int64) ([]*domain.Order, error)
	GetOrdersByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
}

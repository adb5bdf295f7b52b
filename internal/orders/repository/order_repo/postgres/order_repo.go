package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"shop/internal/orders/domain"
	"shop/internal/orders/repository/order_repo"
)

type pgOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, l *zap.Logger) order_repo.OrderRepository {
	return &pgOrderRepository{db: db, logger: l}
}

func (r *pgOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (orderID int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction for order creation", zap.Error(err))
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Panic during order creation transaction, rolling back")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.logger.Warn("Rolling back order creation transaction", zap.Error(err))
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				r.logger.Error("Failed to commit order creation transaction", zap.Error(err))
			}
		}
	}()

	orderQuery := `INSERT INTO orders (user_id, user_email, status, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRowContext(ctx, orderQuery, order.UserID, order.UserEmail, order.Status, order.CreatedAt).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("tx failed to create order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, item_id, quantity) VALUES ($1, $2, $3)`
	for _, li := range order.Items {
		if _, err = tx.ExecContext(ctx, itemQuery, orderID, li.ItemID, li.Quantity); err != nil {
			return 0, fmt.Errorf("tx failed to create order item for item %d: %w", li.ItemID, err)
		}
	}

	order.ID = orderID
	r.logger.Debug("Order and line items inserted in transaction", zap.Int64("order_id", orderID))
	return orderID, err
}

const orderSelect = `
	SELECT o.id, o.user_id, o.user_email, o.status, o.created_at,
	       oi.id, oi.item_id, i.name, i.price, oi.quantity
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	JOIN items i ON i.id = oi.item_id`

func (r *pgOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, orderSelect+` WHERE o.id = $1 ORDER BY oi.id`, id)
	if err != nil {
		r.logger.Error("Failed to query order by ID", zap.Int64("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, sql.ErrNoRows
	}
	return orders[0], nil
}

func (r *pgOrderRepository) GetOrdersByIDs(ctx context.Context, ids []int64) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, orderSelect+` WHERE o.id = ANY($1) ORDER BY o.id, oi.id`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to query orders by IDs", zap.Error(err))
		return nil, fmt.Errorf("failed to get orders by ids: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *pgOrderRepository) GetOrdersByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, orderSelect+` WHERE o.status = ANY($1) ORDER BY o.id, oi.id`, pq.Array(strs))
	if err != nil {
		r.logger.Error("Failed to query orders by statuses", zap.String("statuses", strings.Join(strs, ",")), zap.Error(err))
		return nil, fmt.Errorf("failed to get orders by statuses: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *pgOrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Int64("order_id", id), zap.Error(err))
		return fmt.Errorf("failed to update order %d status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for order status update: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *pgOrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete order", zap.Int64("order_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for order delete: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// scanOrders folds the joined order/line-item rows back into orders,
// relying on the ORDER BY o.id in every query.
func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	var current *domain.Order

	for rows.Next() {
		var (
			orderID   int64
			userID    int64
			userEmail string
			status    domain.OrderStatus
			createdAt sql.NullTime
			li        domain.OrderItem
		)
		if err := rows.Scan(&orderID, &userID, &userEmail, &status, &createdAt,
			&li.ID, &li.ItemID, &li.ItemName, &li.Price, &li.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		if current == nil || current.ID != orderID {
			current = &domain.Order{
				ID:        orderID,
				UserID:    userID,
				UserEmail: userEmail,
				Status:    status,
				CreatedAt: createdAt.Time,
			}
			orders = append(orders, current)
		}
		current.Items = append(current.Items, li)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orders, nil
		}
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return orders, nil
}

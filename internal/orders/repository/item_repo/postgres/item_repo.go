package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"shop/internal/orders/domain"
	"shop/internal/orders/repository/item_repo"
)

type pgItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewItemRepository(db *sql.DB, l *zap.Logger) item_repo.ItemRepository {
	return &pgItemRepository{db: db, logger: l}
}

func (r *pgItemRepository) GetItemsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Item, error) {
	items := make(map[int64]domain.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price FROM items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to query items by IDs", zap.Error(err))
		return nil, fmt.Errorf("failed to get items by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

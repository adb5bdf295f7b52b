package item_repo

import (
	"context"

	"shop/internal/orders/domain"
)

type ItemRepository interface {
	// GetItemsByIDs returns the catalog rows found for ids; absent ids are
	// simply missing from the map so the caller decides how to fail.
	GetItemsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Item, error)
}

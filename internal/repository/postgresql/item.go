package postgresql

import (
	"context"
	"fmt"

	"github.com/ayura-group/resto-backend-go/internal/domain/item"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type itemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) item.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, it item.Item) (item.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO items (id, name, unit, sell_price, cost_price, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, name, unit, sell_price, cost_price, is_active, created_at, updated_at
	`

	var created item.Item
	err := q.QueryRow(ctx, query,
		it.Name, it.Unit, it.SellPrice, it.CostPrice, it.IsActive,
	).Scan(
		&created.ID, &created.Name, &created.Unit, &created.SellPrice, &created.CostPrice,
		&created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return item.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	return created, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (item.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, unit, sell_price, cost_price, is_active, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	var it item.Item
	err := q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Name, &it.Unit, &it.SellPrice, &it.CostPrice,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return item.Item{}, item.ErrItemNotFound
		}
		return item.Item{}, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

func (r *itemRepository) ListActive(ctx context.Context) ([]item.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, unit, sell_price, cost_price, is_active, created_at, updated_at
		FROM items
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Unit, &it.SellPrice, &it.CostPrice,
			&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ayura-group/resto-backend-go/internal/domain/stock"
	"github.com/ayura-group/resto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type stockRepository struct {
	db *database.DB
}

func NewStockRepository(db *database.DB) stock.StockRepository {
	return &stockRepository{db: db}
}

// AcquireItemLock serializes decrements on one item. The advisory lock is
// transaction-scoped: it releases on commit or rollback, never earlier, and
// is never held across a round-trip to the caller. Different items hash to
// different keys and proceed in parallel.
func (r *stockRepository) AcquireItemLock(ctx context.Context, itemID string) error {
	q := GetQuerier(ctx, r.db)

	if _, ok := ctx.Value("tx").(pgx.Tx); !ok {
		return fmt.Errorf("item lock requires a transaction")
	}

	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('stock:' || $1::text, 0))`, itemID)
	if err != nil {
		return fmt.Errorf("failed to acquire item lock: %w", err)
	}
	return nil
}

// OnHand computes IN - OUT - table sales - dispatched + returned - losses in
// one statement. The figure is always derived from the ledger so it cannot
// drift from the underlying movements.
func (r *stockRepository) OnHand(ctx context.Context, itemID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE((SELECT SUM(quantity) FROM stock_movements WHERE item_id = $1 AND direction = 'IN'), 0)
			- COALESCE((SELECT SUM(quantity) FROM stock_movements WHERE item_id = $1 AND direction = 'OUT'), 0)
			- COALESCE((SELECT SUM(qty) FROM table_sales WHERE item_id = $1), 0)
			- COALESCE((SELECT SUM(qty_dispatched) FROM dispatches WHERE item_id = $1), 0)
			+ COALESCE((SELECT SUM(r.qty_returned) FROM dispatch_returns r
				JOIN dispatches d ON r.dispatch_id = d.id WHERE d.item_id = $1), 0)
			- COALESCE((SELECT SUM(r.loss_qty) FROM dispatch_returns r
				JOIN dispatches d ON r.dispatch_id = d.id WHERE d.item_id = $1), 0)
	`

	var onHand decimal.Decimal
	if err := q.QueryRow(ctx, query, itemID).Scan(&onHand); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to compute stock on hand: %w", err)
	}

	return onHand, nil
}

func (r *stockRepository) InsertMovement(ctx context.Context, m stock.StockMovement) (stock.StockMovement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO stock_movements (id, item_id, direction, quantity, unit_cost, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, item_id, direction, quantity, unit_cost, note, created_at
	`

	var created stock.StockMovement
	err := q.QueryRow(ctx, query,
		m.ItemID, m.Direction, m.Quantity, m.UnitCost, m.Note,
	).Scan(
		&created.ID, &created.ItemID, &created.Direction, &created.Quantity,
		&created.UnitCost, &created.Note, &created.CreatedAt,
	)
	if err != nil {
		return stock.StockMovement{}, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	return created, nil
}

func (r *stockRepository) ListMovements(ctx context.Context, itemID string) ([]stock.StockMovement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, item_id, direction, quantity, unit_cost, note, created_at
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []stock.StockMovement
	for rows.Next() {
		var m stock.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.Direction, &m.Quantity, &m.UnitCost, &m.Note, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock movements: %w", err)
	}

	return movements, nil
}

func (r *stockRepository) InsertDispatch(ctx context.Context, d stock.Dispatch) (stock.Dispatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO dispatches (id, waiter_id, item_id, qty_dispatched, price_each, dispatch_date)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, waiter_id, item_id, qty_dispatched, price_each, dispatch_date, created_at
	`

	var created stock.Dispatch
	err := q.QueryRow(ctx, query,
		d.WaiterID, d.ItemID, d.QtyDispatched, d.PriceEach, d.DispatchDate,
	).Scan(
		&created.ID, &created.WaiterID, &created.ItemID, &created.QtyDispatched,
		&created.PriceEach, &created.DispatchDate, &created.CreatedAt,
	)
	if err != nil {
		return stock.Dispatch{}, fmt.Errorf("failed to insert dispatch: %w", err)
	}

	return created, nil
}

func (r *stockRepository) GetDispatchByID(ctx context.Context, id string) (stock.Dispatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, waiter_id, item_id, qty_dispatched, price_each, dispatch_date, created_at
		FROM dispatches
		WHERE id = $1
	`

	var d stock.Dispatch
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.WaiterID, &d.ItemID, &d.QtyDispatched, &d.PriceEach, &d.DispatchDate, &d.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return stock.Dispatch{}, stock.ErrDispatchNotFound
		}
		return stock.Dispatch{}, fmt.Errorf("failed to get dispatch: %w", err)
	}

	return d, nil
}

func (r *stockRepository) InsertReturn(ctx context.Context, ret stock.Return) (stock.Return, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO dispatch_returns (id, dispatch_id, qty_returned, loss_qty, cash_collected, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, dispatch_id, qty_returned, loss_qty, cash_collected, note, created_at
	`

	var created stock.Return
	err := q.QueryRow(ctx, query,
		ret.DispatchID, ret.QtyReturned, ret.LossQty, ret.CashCollected, ret.Note,
	).Scan(
		&created.ID, &created.DispatchID, &created.QtyReturned, &created.LossQty,
		&created.CashCollected, &created.Note, &created.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_dispatch_return") {
			return stock.Return{}, stock.ErrDuplicateReturn
		}
		return stock.Return{}, fmt.Errorf("failed to insert dispatch return: %w", err)
	}

	return created, nil
}

func (r *stockRepository) GetReturnByDispatchID(ctx context.Context, dispatchID string) (stock.Return, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, dispatch_id, qty_returned, loss_qty, cash_collected, note, created_at
		FROM dispatch_returns
		WHERE dispatch_id = $1
	`

	var ret stock.Return
	err := q.QueryRow(ctx, query, dispatchID).Scan(
		&ret.ID, &ret.DispatchID, &ret.QtyReturned, &ret.LossQty,
		&ret.CashCollected, &ret.Note, &ret.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return stock.Return{}, stock.ErrReturnNotFound
		}
		return stock.Return{}, fmt.Errorf("failed to get dispatch return: %w", err)
	}

	return ret, nil
}

func (r *stockRepository) InsertTableSale(ctx context.Context, s stock.TableSale) (stock.TableSale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO table_sales (id, waiter_id, table_code, item_id, qty, price_each, discount, loss_qty, sale_date)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, waiter_id, table_code, item_id, qty, price_each, discount, loss_qty, sale_date, created_at
	`

	var created stock.TableSale
	err := q.QueryRow(ctx, query,
		s.WaiterID, s.TableCode, s.ItemID, s.Qty, s.PriceEach, s.Discount, s.LossQty, s.SaleDate,
	).Scan(
		&created.ID, &created.WaiterID, &created.TableCode, &created.ItemID, &created.Qty,
		&created.PriceEach, &created.Discount, &created.LossQty, &created.SaleDate, &created.CreatedAt,
	)
	if err != nil {
		return stock.TableSale{}, fmt.Errorf("failed to insert table sale: %w", err)
	}

	return created, nil
}

func (r *stockRepository) TableSalesTotalForDay(ctx context.Context, waiterID string, day time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(qty * price_each - discount), 0)
		FROM table_sales
		WHERE waiter_id = $1 AND sale_date = $2
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, waiterID, day).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum table sales: %w", err)
	}

	return total, nil
}

func (r *stockRepository) CashCollectedForDay(ctx context.Context, waiterID string, day time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(r.cash_collected), 0)
		FROM dispatch_returns r
		JOIN dispatches d ON r.dispatch_id = d.id
		WHERE d.waiter_id = $1 AND d.dispatch_date = $2
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, waiterID, day).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum cash collected: %w", err)
	}

	return total, nil
}

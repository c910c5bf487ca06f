package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockRepository owns every stock-affecting table: movements, dispatches,
// returns and table sales. All inserts are append-only.
type StockRepository interface {
	// AcquireItemLock takes the transaction-scoped exclusive lock for one
	// item. It must be called through a transactional context; the lock
	// releases when that transaction commits or rolls back.
	AcquireItemLock(ctx context.Context, itemID string) error

	// OnHand derives stock-on-hand from the full ledger, never from a
	// cached counter.
	OnHand(ctx context.Context, itemID string) (decimal.Decimal, error)

	InsertMovement(ctx context.Context, m StockMovement) (StockMovement, error)
	ListMovements(ctx context.Context, itemID string) ([]StockMovement, error)

	InsertDispatch(ctx context.Context, d Dispatch) (Dispatch, error)
	GetDispatchByID(ctx context.Context, id string) (Dispatch, error)

	InsertReturn(ctx context.Context, r Return) (Return, error)
	GetReturnByDispatchID(ctx context.Context, dispatchID string) (Return, error)

	InsertTableSale(ctx context.Context, s TableSale) (TableSale, error)

	// TableSalesTotalForDay sums qty*price_each - discount for one waiter on
	// one business day; the payroll fallback aggregate for inside staff.
	TableSalesTotalForDay(ctx context.Context, waiterID string, day time.Time) (decimal.Decimal, error)

	// CashCollectedForDay sums returns.cash_collected joined through
	// dispatches for one waiter on one business day.
	CashCollectedForDay(ctx context.Context, waiterID string, day time.Time) (decimal.Decimal, error)
}

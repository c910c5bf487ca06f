package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovement is one append-only ledger entry. Rows are never updated or
// deleted; stock-on-hand is always derived from the full ledger.
type StockMovement struct {
	ID        string
	ItemID    string
	Direction Direction
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Note      *string
	CreatedAt time.Time
}

// Dispatch hands stock to a field waiter for off-site sale. It decrements
// on-hand the moment it is created.
type Dispatch struct {
	ID            string
	WaiterID      string
	ItemID        string
	QtyDispatched decimal.Decimal
	PriceEach     decimal.Decimal
	DispatchDate  time.Time
	CreatedAt     time.Time
}

// Return settles a dispatch: unsold stock comes back, losses are written off,
// the rest is cash collected. At most one return exists per dispatch.
type Return struct {
	ID            string
	DispatchID    string
	QtyReturned   decimal.Decimal
	LossQty       decimal.Decimal
	CashCollected decimal.Decimal
	Note          *string
	CreatedAt     time.Time
}

// QtySold is the dispatched quantity that neither came back nor was lost.
func (r Return) QtySold(d Dispatch) decimal.Decimal {
	return d.QtyDispatched.Sub(r.QtyReturned).Sub(r.LossQty)
}

// TableSale is an inside sale rung up against a table. It decrements stock at
// creation time.
type TableSale struct {
	ID        string
	WaiterID  string
	TableCode string
	ItemID    string
	Qty       decimal.Decimal
	PriceEach decimal.Decimal
	Discount  decimal.Decimal
	LossQty   decimal.Decimal
	SaleDate  time.Time
	CreatedAt time.Time
}

package cashup

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSchemaVersion tags stored snapshots so later readers can tell what
// shape they hold.
const SnapshotSchemaVersion = 1

// ItemSummary is one line of the end-of-shift reconciliation: how much of an
// item the shift sold and the cash due for it.
type ItemSummary struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit"`
	Qty      decimal.Decimal `json:"qty"`
	CashDue  decimal.Decimal `json:"cash_due"`
}

// Snapshot is the immutable summary written at cash-up time. It captures the
// shift's state as of submission; a re-save replaces it wholesale.
type Snapshot struct {
	SchemaVersion int             `json:"schema_version"`
	ShiftID       string          `json:"shift_id"`
	ShiftDate     time.Time       `json:"shift_date"`
	EmployeeID    string          `json:"employee_id"`
	WaiterType    string          `json:"waiter_type"`
	Items         []ItemSummary   `json:"items"`
	GrossSales    decimal.Decimal `json:"gross_sales"`
	NetSales      decimal.Decimal `json:"net_sales"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	SubmittedBy   *string         `json:"submitted_by,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// Cashup is the stored row: at most one per shift, keyed by shift id.
type Cashup struct {
	ID          string
	ShiftID     string
	Snapshot    Snapshot
	Note        *string
	SubmittedBy *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package shift

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// WaiterType scopes which settlement amount a shift contributes to payroll.
type WaiterType string

const (
	WaiterTypeInside  WaiterType = "INSIDE"
	WaiterTypeField   WaiterType = "FIELD"
	WaiterTypeKitchen WaiterType = "KITCHEN"
)

func (w WaiterType) Valid() bool {
	switch w {
	case WaiterTypeInside, WaiterTypeField, WaiterTypeKitchen:
		return true
	}
	return false
}

// Shift is the per-employee, per-business-day settlement unit. ClosedAt nil
// means OPEN. GrossSales and NetSales are maintained as the exact running sum
// of the shift's sale lines; there is no separate recompute step.
type Shift struct {
	ID         string
	EmployeeID string
	WaiterType WaiterType
	ShiftDate  time.Time
	OpenedAt   time.Time
	ClosedAt   *time.Time
	GrossSales decimal.Decimal
	NetSales   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s Shift) IsOpen() bool {
	return s.ClosedAt == nil
}

// SaleLine is one line of sales accumulated on a shift. Append-only; its
// total is applied to the owning shift inside the same transaction that
// inserts it.
type SaleLine struct {
	ID               string
	ShiftID          string
	ItemID           string
	Qty              decimal.Decimal
	Unit             string
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal
	CommissionEarned *decimal.Decimal
	CommissionRate   *decimal.Decimal
	LineDate         time.Time
	Note             *string
	CreatedAt        time.Time
}

// EventKind tags entries in the shift audit log.
type EventKind string

const (
	EventClosed         EventKind = "closed"
	EventReopened       EventKind = "reopened"
	EventAutoReopened   EventKind = "auto_reopened"
	EventRolloverOpened EventKind = "rollover_opened"
	EventCashupSaved    EventKind = "cashup_saved"
)

// Event is one append-only audit record for a shift. It replaces the older
// practice of embedding JSON markers in a free-text notes column.
type Event struct {
	ID        string
	ShiftID   string
	Kind      EventKind
	Payload   json.RawMessage
	CreatedAt time.Time
}

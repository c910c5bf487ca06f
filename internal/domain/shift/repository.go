package shift

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ShiftRepository owns shifts, sale lines and the shift event log. It is the
// only writer of closed_at transitions and sale_lines rows.
type ShiftRepository interface {
	Insert(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)

	// GetByIDForUpdate locks the shift row for the calling transaction.
	// Lifecycle mutations route through this so close and add-line cannot
	// interleave on the same shift.
	GetByIDForUpdate(ctx context.Context, id string) (Shift, error)

	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (Shift, error)

	// HasOlderOpenShift reports whether the employee has an OPEN shift dated
	// strictly before the given business day.
	HasOlderOpenShift(ctx context.Context, employeeID string, day time.Time) (bool, error)

	// HasOtherOpenShiftOnDay reports whether the employee has an OPEN shift
	// on the given day other than excludeShiftID.
	HasOtherOpenShiftOnDay(ctx context.Context, employeeID string, day time.Time, excludeShiftID string) (bool, error)

	SetClosedAt(ctx context.Context, shiftID string, closedAt *time.Time) error

	InsertLine(ctx context.Context, line SaleLine) (SaleLine, error)
	ListLines(ctx context.Context, shiftID string) ([]SaleLine, error)

	// AddToTotals increments the shift's running gross/net sums. Callers
	// must invoke it in the same transaction as InsertLine.
	AddToTotals(ctx context.Context, shiftID string, gross, net decimal.Decimal) error

	AppendEvent(ctx context.Context, event Event) error
	ListEvents(ctx context.Context, shiftID string) ([]Event, error)
}

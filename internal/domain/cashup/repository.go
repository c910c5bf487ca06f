package cashup

import "context"

// CashupRepository owns the shift_cashups table. Upsert is the only write
// path; nothing else may mutate a stored snapshot.
type CashupRepository interface {
	Upsert(ctx context.Context, c Cashup) (Cashup, error)
	GetByShiftID(ctx context.Context, shiftID string) (Cashup, error)
	ExistsForShift(ctx context.Context, shiftID string) (bool, error)
}

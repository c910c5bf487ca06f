package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository owns payroll_runs and payroll_lines, and reads the
// salary_deductions ledger plus the per-day settlement aggregates.
type PayrollRepository interface {
	GetRunByPeriod(ctx context.Context, year, month int) (Run, error)
	InsertRun(ctx context.Context, run Run) (Run, error)
	DeleteRunByPeriod(ctx context.Context, year, month int) error
	InsertLine(ctx context.Context, line Line) (Line, error)
	ListLines(ctx context.Context, runID string) ([]Line, error)

	// DeductionsTotalThrough sums the employee's deduction ledger up to and
	// including the period end (exclusive bound: entries dated before end).
	DeductionsTotalThrough(ctx context.Context, employeeID string, end time.Time) (decimal.Decimal, error)

	// DeductionsAppliedBefore sums deductions_applied over the employee's
	// lines in runs for periods strictly earlier than (year, month).
	DeductionsAppliedBefore(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error)

	// NetSalesByDay returns shift net_sales keyed by business day for one
	// employee across [start, end).
	NetSalesByDay(ctx context.Context, employeeID string, start, end time.Time) (map[time.Time]decimal.Decimal, error)
}

// DeductionRepository is the append-only salary deduction ledger boundary.
// The settlement core only reads it; writes exist for the collaborators that
// feed it (and for tests).
type DeductionRepository interface {
	Insert(ctx context.Context, d Deduction) (Deduction, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Deduction, error)
}

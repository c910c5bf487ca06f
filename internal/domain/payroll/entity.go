package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Run is one monthly settlement batch, unique per (year, month) unless
// explicitly rerun.
type Run struct {
	ID          string
	PeriodYear  int
	PeriodMonth int
	RunAt       time.Time
}

// Line is one employee's result inside a run: commission gross for the month,
// the deductions collected this run, and what rolls forward.
type Line struct {
	ID                string
	PayrollRunID      string
	EmployeeID        string
	Gross             decimal.Decimal
	DeductionsApplied decimal.Decimal
	NetPay            decimal.Decimal
	CarryForward      decimal.Decimal
	Note              *string

	// Joined fields
	EmployeeName *string
}

// Deduction is one entry of the read-only salary deduction ledger. Entries
// persist across months until payroll has collected them in full.
type Deduction struct {
	ID            string
	EmployeeID    string
	DeductionDate time.Time
	Amount        decimal.Decimal
	Reason        string
	Note          *string
	CreatedAt     time.Time
}

package payroll

import (
	"time"

	"github.com/ayura-group/resto-backend-go/internal/pkg/validator"
)

type RunPayrollRequest struct {
	PeriodYear  int  `json:"period_year"`
	PeriodMonth int  `json:"period_month"`
	Rerun       bool `json:"rerun"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RunResult is the batch outcome handed back to the caller.
type RunResult struct {
	Run   Run
	Lines []Line
}

// PeriodBounds returns the first day of the period and the first day of the
// next period, both midnight UTC, for half-open date range queries.
func PeriodBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

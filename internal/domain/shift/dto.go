package shift

import (
	"time"

	"github.com/ayura-group/resto-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OpenShiftRequest struct {
	EmployeeID  string    `json:"employee_id"`
	WaiterType  string    `json:"waiter_type"`
	BusinessDay time.Time `json:"business_day"`
}

func (r *OpenShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !WaiterType(r.WaiterType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "waiter_type", Message: "must be 'INSIDE', 'FIELD' or 'KITCHEN'"})
	}
	if r.BusinessDay.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "business_day", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddLineRequest struct {
	ShiftID   string          `json:"shift_id"`
	ItemID    string          `json:"item_id"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Note      *string         `json:"note,omitempty"`
}

func (r *AddLineRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "item_id", Message: "is required"})
	}
	if !r.Qty.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "qty", Message: "must be positive"})
	}
	if r.UnitPrice.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "unit_price", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AddLineResult reports the inserted line together with the shift that
// actually received it, which may differ from the requested shift when a
// settled shift had to roll over into a fresh one.
type AddLineResult struct {
	Line  SaleLine
	Shift Shift
}

package stock

import (
	"time"

	"github.com/ayura-group/resto-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RecordMovementRequest struct {
	ItemID    string           `json:"item_id"`
	Direction string           `json:"direction"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Note      *string          `json:"note,omitempty"`
}

func (r *RecordMovementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "item_id", Message: "is required"})
	}
	if !Direction(r.Direction).Valid() {
		errs = append(errs, validator.ValidationError{Field: "direction", Message: "must be 'IN' or 'OUT'"})
	}
	if !r.Quantity.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "quantity", Message: "must be positive"})
	}
	if r.UnitCost != nil && r.UnitCost.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "unit_cost", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateDispatchRequest struct {
	WaiterID     string          `json:"waiter_id"`
	ItemID       string          `json:"item_id"`
	Qty          decimal.Decimal `json:"qty"`
	PriceEach    decimal.Decimal `json:"price_each"`
	DispatchDate time.Time       `json:"dispatch_date"`
}

func (r *CreateDispatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WaiterID) {
		errs = append(errs, validator.ValidationError{Field: "waiter_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "item_id", Message: "is required"})
	}
	if !r.Qty.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "qty", Message: "must be positive"})
	}
	if r.PriceEach.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "price_each", Message: "must be non-negative"})
	}
	if r.DispatchDate.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "dispatch_date", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateReturnRequest struct {
	DispatchID    string          `json:"dispatch_id"`
	QtyReturned   decimal.Decimal `json:"qty_returned"`
	LossQty       decimal.Decimal `json:"loss_qty"`
	CashCollected decimal.Decimal `json:"cash_collected"`
	Note          *string         `json:"note,omitempty"`
}

func (r *CreateReturnRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DispatchID) {
		errs = append(errs, validator.ValidationError{Field: "dispatch_id", Message: "is required"})
	}
	if r.QtyReturned.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "qty_returned", Message: "must be non-negative"})
	}
	if r.LossQty.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "loss_qty", Message: "must be non-negative"})
	}
	if r.CashCollected.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "cash_collected", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateTableSaleRequest struct {
	WaiterID  string          `json:"waiter_id"`
	TableCode string          `json:"table_code"`
	ItemID    string          `json:"item_id"`
	Qty       decimal.Decimal `json:"qty"`
	PriceEach decimal.Decimal `json:"price_each"`
	Discount  decimal.Decimal `json:"discount"`
	LossQty   decimal.Decimal `json:"loss_qty"`
	SaleDate  time.Time       `json:"sale_date"`
}

func (r *CreateTableSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WaiterID) {
		errs = append(errs, validator.ValidationError{Field: "waiter_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "item_id", Message: "is required"})
	}
	if !r.Qty.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "qty", Message: "must be positive"})
	}
	if r.PriceEach.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "price_each", Message: "must be non-negative"})
	}
	if r.Discount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "discount", Message: "must be non-negative"})
	}
	if r.LossQty.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "loss_qty", Message: "must be non-negative"})
	}
	if r.SaleDate.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "sale_date", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

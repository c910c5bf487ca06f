package stock

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDispatchNotFound      = errors.New("dispatch not found")
	ErrReturnNotFound        = errors.New("dispatch return not found")
	ErrDuplicateReturn       = errors.New("a return already exists for this dispatch")
	ErrReturnExceedsDispatch = errors.New("returned plus loss quantity exceeds dispatched quantity")
)

// InsufficientStockError reports a rejected decrement together with the
// on-hand figure observed under the item lock, so the caller can resubmit
// with an adjusted amount. It is never retried by the core.
type InsufficientStockError struct {
	ItemID    string
	OnHand    decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: on hand %s, requested %s",
		e.ItemID, e.OnHand.String(), e.Requested.String())
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

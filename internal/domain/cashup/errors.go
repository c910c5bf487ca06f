package cashup

import "errors"

var (
	ErrCashupNotFound = errors.New("cash-up not found for shift")
)

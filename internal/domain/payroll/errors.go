package payroll

import "errors"

var (
	ErrPayrollAlreadyExists = errors.New("payroll run already exists for this period")
	ErrPayrollRunNotFound   = errors.New("payroll run not found")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
)

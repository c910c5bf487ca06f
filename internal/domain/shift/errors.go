package shift

import "errors"

var (
	ErrShiftNotFound = errors.New("shift not found")

	// Open errors
	ErrPreviousOpenNotClosed = errors.New("an earlier shift is still open and must be closed first")

	// Close errors
	ErrAlreadyClosed       = errors.New("shift is already closed")
	ErrCashupAlreadyExists = errors.New("shift already has a cash-up")

	// Reopen errors
	ErrReopenOnlyToday          = errors.New("only today's shift can be reopened")
	ErrShiftNotClosed           = errors.New("shift is not closed")
	ErrCashupExists             = errors.New("cash-up exists, shift numbers are settled")
	ErrEmployeeAlreadyOpenToday = errors.New("employee already has an open shift today")
)

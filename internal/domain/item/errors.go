package item

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemInactive = errors.New("item is inactive")
)

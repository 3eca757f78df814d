package board

import "errors"

// Sentinel errors for board operations.
var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidShift    = errors.New("task cannot move further in that direction")
)

package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for session operations.
var (
	// ErrInvalidCredentials never says whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPersistence        = errors.New("session storage failure")
)

// PersistenceError is a durable storage failure during a session operation.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is matches ErrPersistence as well as the wrapped cause.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

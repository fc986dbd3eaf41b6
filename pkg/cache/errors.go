package cache

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned while the breaker in front of a store is open.
var ErrCircuitOpen = errors.New("cache circuit open")

type CacheError struct {
	Operation string
	Err       error
}

func NewCacheError(operation string, err error) *CacheError {
	return &CacheError{
		Operation: operation,
		Err:       err,
	}
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache operation %s failed: %v", e.Operation, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

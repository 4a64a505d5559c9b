package service

import (
	"errors"
	"fmt"
)

// ErrMealNotFound is returned when no meal has the requested id
var ErrMealNotFound = errors.New("meal not found")

// ValidationError reports a client payload that is missing required fields
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps any failure during a database round trip
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	var serr *StorageError
	if errors.As(err, &serr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

package posts

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("post not found")
	ErrStorage    = errors.New("storage failure")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("post was modified concurrently")
	ErrForbidden  = errors.New("not allowed to modify post")
)

// StorageError reports a failed read or write of the durable mirror.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("mirror %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

package task

import (
	"errors"
	"fmt"
)

// Common registry errors.
var (
	// ErrNotFound is returned when a requested record does not exist in
	// the registry.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert would alias an existing
	// identifier. Identifier generation makes this unreachable in normal
	// operation; hitting it indicates a programming error.
	ErrDuplicate = errors.New("record already exists")

	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrDuplicateTask indicates an insert collided with an existing task ID.
	ErrDuplicateTask = fmt.Errorf("%w: task", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

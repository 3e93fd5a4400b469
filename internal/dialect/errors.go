package dialect

import (
	"errors"
	"fmt"
)

// PreconditionError is the panic value for requests Frontbase cannot
// express at all. It signals a programming error in the caller and is
// never returned as an error.
type PreconditionError struct {
	// Op names the rejected operation.
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("frontbase %s: %s", e.Op, e.Message)
}

// IsPreconditionError returns true if err is or wraps a *PreconditionError.
// Uses errors.As to handle wrapped errors.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

package pipeline

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// ErrDeserialization matches every DeserializationError under errors.Is.
var ErrDeserialization = crerr.New("deserialization error")

// DeserializationError is the single fatal error kind surfaced by a
// deserialization run.
type DeserializationError struct {
	Message string
	cause   error
}

func (e *DeserializationError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *DeserializationError) Unwrap() error {
	return e.cause
}

func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

func Errorf(format string, args ...any) error {
	return crerr.WithStack(&DeserializationError{Message: fmt.Sprintf(format, args...)})
}

// Wrapf turns err into a DeserializationError unless it already is one.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var existing *DeserializationError
	if crerr.As(err, &existing) {
		return err
	}
	return crerr.WithStack(&DeserializationError{Message: fmt.Sprintf(format, args...), cause: err})
}

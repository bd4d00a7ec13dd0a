package witness

import (
	"errors"
	"fmt"
)

// InvalidEncodingError indicates that a value received from storage or from
// the network could not be decoded into the expected structure, e.g. an
// identifier of the wrong length or a lookup key from a foreign namespace.
type InvalidEncodingError struct {
	err error
}

func NewInvalidEncodingError(err error) error {
	return InvalidEncodingError{err}
}

func NewInvalidEncodingErrorf(msg string, args ...interface{}) error {
	return InvalidEncodingError{fmt.Errorf(msg, args...)}
}

func (e InvalidEncodingError) Error() string { return e.err.Error() }
func (e InvalidEncodingError) Unwrap() error { return e.err }

// IsInvalidEncodingError returns whether err is an InvalidEncodingError
func IsInvalidEncodingError(err error) bool {
	var e InvalidEncodingError
	return errors.As(err, &e)
}

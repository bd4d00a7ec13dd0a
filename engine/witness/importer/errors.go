package importer

import (
	"errors"
	"fmt"

	"github.com/validated-streams/witness-guard/model/witness"
)

// ClientImportError is a failure reported by the wrapped import stage or by
// a runtime query needed to decide the import.
type ClientImportError struct {
	err error
}

func NewClientImportError(err error) error {
	return ClientImportError{err: err}
}

func NewClientImportErrorf(msg string, args ...interface{}) error {
	return ClientImportError{err: fmt.Errorf(msg, args...)}
}

func (e ClientImportError) Error() string { return e.err.Error() }
func (e ClientImportError) Unwrap() error { return e.err }

// IsClientImportError returns whether err is a ClientImportError.
func IsClientImportError(err error) bool {
	var e ClientImportError
	return errors.As(err, &e)
}

// UnwitnessedEventsError rejects a block whose events lack a quorum of
// witness proofs. The rejection is transient: the block may be offered again
// once the proofs have been found.
type UnwitnessedEventsError struct {
	BlockID witness.Identifier
	Events  witness.IdentifierList
}

func NewUnwitnessedEventsError(blockID witness.Identifier, events []witness.Identifier) error {
	return UnwitnessedEventsError{BlockID: blockID, Events: witness.IdentifierList(events).Copy()}
}

func (e UnwitnessedEventsError) Error() string {
	return fmt.Sprintf("block %v references %d unwitnessed events", e.BlockID, len(e.Events))
}

// IsUnwitnessedEventsError returns whether err is an UnwitnessedEventsError.
func IsUnwitnessedEventsError(err error) bool {
	var e UnwitnessedEventsError
	return errors.As(err, &e)
}

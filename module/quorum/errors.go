package quorum

import (
	"errors"
	"fmt"
)

var (
	// ErrEventMissing is logged when a bundle holds no proofs for an outstanding event.
	ErrEventMissing = errors.New("no proofs for event")
	// ErrUnauthorizedSigner is logged when a proof is signed by a key outside the authority set.
	ErrUnauthorizedSigner = errors.New("signer is not a member of the authority set")
	// ErrInvalidSignature is logged when a well-formed signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInsufficientQuorum is logged when fewer than threshold valid signatures were found.
	ErrInsufficientQuorum = errors.New("insufficient quorum")
	// ErrEmptyAuthoritySet is logged when no authorities are known at the verification height.
	ErrEmptyAuthoritySet = errors.New("empty authority set")
)

// InvalidProofEncodingError indicates that a proof bundle contains a signature
// or public key that cannot be decoded. Unlike an insufficient proof, this is
// a structural defect of the input.
type InvalidProofEncodingError struct {
	err error
}

func NewInvalidProofEncodingErrorf(msg string, args ...interface{}) error {
	return InvalidProofEncodingError{fmt.Errorf(msg, args...)}
}

func (e InvalidProofEncodingError) Error() string { return e.err.Error() }
func (e InvalidProofEncodingError) Unwrap() error { return e.err }

// IsInvalidProofEncodingError returns whether err is an InvalidProofEncodingError
func IsInvalidProofEncodingError(err error) bool {
	var e InvalidProofEncodingError
	return errors.As(err, &e)
}

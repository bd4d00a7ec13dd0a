package witness

import (
	"encoding/hex"
	"sort"
)

// ValidatorKeyLen is the length of an encoded ECDSA P-256 public key.
const ValidatorKeyLen = 64

// ValidatorKey is the encoded public key of a validator of the authority set.
type ValidatorKey [ValidatorKeyLen]byte

// String returns the hex encoding of the key.
func (k ValidatorKey) String() string {
	return hex.EncodeToString(k[:])
}

// ValidatorKeyFromBytes copies an encoded public key into a ValidatorKey.
func ValidatorKeyFromBytes(b []byte) (ValidatorKey, error) {
	var key ValidatorKey
	if len(b) != ValidatorKeyLen {
		return key, NewInvalidEncodingErrorf("validator key has %d bytes, expected %d", len(b), ValidatorKeyLen)
	}
	copy(key[:], b)
	return key, nil
}

// Signature is a validator's signature over the bytes of an event identifier.
type Signature []byte

// EventProofs holds the signatures collected for a single event, keyed by signer.
type EventProofs map[ValidatorKey]Signature

// ProofBundle maps each event to the signatures witnessing it.
type ProofBundle map[Identifier]EventProofs

// NewProofBundle returns an empty bundle.
func NewProofBundle() ProofBundle {
	return make(ProofBundle)
}

// AddSignature records the signature of signer for event. An existing
// signature by the same signer is replaced.
func (b ProofBundle) AddSignature(event Identifier, signer ValidatorKey, sig Signature) {
	proofs, ok := b[event]
	if !ok {
		proofs = make(EventProofs)
		b[event] = proofs
	}
	proofs[signer] = sig
}

// Merge adds all signatures of other into b.
func (b ProofBundle) Merge(other ProofBundle) {
	for event, proofs := range other {
		for signer, sig := range proofs {
			b.AddSignature(event, signer, sig)
		}
	}
}

// Events returns the events of the bundle in lexicographic order.
func (b ProofBundle) Events() IdentifierList {
	events := make(IdentifierList, 0, len(b))
	for event := range b {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		return string(events[i][:]) < string(events[j][:])
	})
	return events
}

// Filter returns a bundle restricted to the given events. Events absent from
// b are absent from the result.
func (b ProofBundle) Filter(events []Identifier) ProofBundle {
	filtered := NewProofBundle()
	for _, event := range events {
		if proofs, ok := b[event]; ok {
			filtered[event] = proofs
		}
	}
	return filtered
}

// SignatureCount returns the number of signatures held for event.
func (b ProofBundle) SignatureCount(event Identifier) int {
	return len(b[event])
}

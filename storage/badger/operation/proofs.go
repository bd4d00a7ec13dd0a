package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/validated-streams/witness-guard/model/witness"
)

// StoredProof is the database representation of one validator signature
// over an event.
type StoredProof struct {
	Signer    []byte
	Signature []byte
}

// UpsertEventProofs replaces the proofs stored for the event.
func UpsertEventProofs(eventID witness.Identifier, proofs []StoredProof) func(*badger.Txn) error {
	return upsert(makePrefix(codeEventProofs, eventID), proofs)
}

// RetrieveEventProofs reads the proofs stored for the event.
// Returns storage.ErrNotFound if the event has no proofs.
func RetrieveEventProofs(eventID witness.Identifier, proofs *[]StoredProof) func(*badger.Txn) error {
	return retrieve(makePrefix(codeEventProofs, eventID), proofs)
}

// InsertDBVersion marks a fresh database with the current layout version.
func InsertDBVersion(version uint32) func(*badger.Txn) error {
	return insert(makePrefix(codeDBVersion), version)
}

// RetrieveDBVersion reads the database layout version.
func RetrieveDBVersion(version *uint32) func(*badger.Txn) error {
	return retrieve(makePrefix(codeDBVersion), version)
}

// HasDBVersion checks whether the database was initialized.
func HasDBVersion(initialized *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeDBVersion), initialized)
}

// CurrentDBVersion is the layout version written by this software.
func CurrentDBVersion() uint32 {
	return dbVersion
}

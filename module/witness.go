package module

import (
	"github.com/validated-streams/witness-guard/model/witness"
)

// ProofStore is the durable map from events to the validator signatures
// witnessing them. Implementations must provide read-after-write visibility
// and be safe for concurrent use.
type ProofStore interface {
	// Get returns the proofs known for the given events. Events without proofs
	// are absent from the returned bundle.
	Get(eventIDs []witness.Identifier) (witness.ProofBundle, error)

	// Add merges the bundle into the store, keeping signatures already known.
	Add(bundle witness.ProofBundle) error
}

// EventExtractor interprets block transactions. It is provided by the runtime
// and is opaque to the import guard.
type EventExtractor interface {
	// ExtractEventIDs returns the events referenced by the transactions, as
	// interpreted by the runtime at the given height.
	ExtractEventIDs(height uint64, txs []witness.Transaction) ([]witness.Identifier, error)

	// FindUnwitnessed returns the subset of eventIDs which lack a quorum of
	// proofs in the store, according to the authority set at the given height.
	FindUnwitnessed(height uint64, store ProofStore, eventIDs []witness.Identifier) ([]witness.Identifier, error)
}

// AuthorityResolver resolves the validator keys entitled to sign witness
// proofs. The authority set may change with height; callers must not cache it.
type AuthorityResolver interface {
	AuthoritiesAt(height uint64) ([]witness.ValidatorKey, error)
}

// ChainClient exposes the local view of the chain.
type ChainClient interface {
	// BestHeight returns the height of the node's current best block.
	BestHeight() uint64
}

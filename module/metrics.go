package module

import (
	"time"
)

// WitnessMetrics tracks the import guard: deferred blocks, lookups and proof publication.
type WitnessMetrics interface {
	// BlockDeferred is called when a block is registered as awaiting proofs.
	BlockDeferred()

	// DeferralDropped is called when a block could not be deferred because the
	// lookup network is not available yet.
	DeferralDropped()

	// DeferredBlockResolved is called when proofs for a deferred block were
	// verified, reporting how long the block waited.
	DeferredBlockResolved(waited time.Duration)

	// DeferredBlockEvicted is called when a deferred block is dropped for
	// capacity or expiry reasons.
	DeferredBlockEvicted()

	// DeferredBlocks reports the current number of deferred blocks.
	DeferredBlocks(count uint)

	// LookupRequested is called for every proof lookup issued to the network.
	LookupRequested()

	// LookupResponseRejected is called when a lookup response is discarded.
	LookupResponseRejected(reason string)

	// BlockImportOutcome is called once per intercepted import attempt.
	BlockImportOutcome(outcome string)

	// ProofsPublished is called when the proofs of an imported block were published.
	ProofsPublished()

	// ProofPublicationSkipped is called when publication was not possible.
	ProofPublicationSkipped()
}

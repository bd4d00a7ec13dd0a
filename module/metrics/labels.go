package metrics

const (
	LabelOutcome = "outcome"
	LabelReason  = "reason"
)

// Block import outcomes
const (
	OutcomeImported     = "imported"
	OutcomeDeferred     = "deferred"
	OutcomeDeferFailed  = "defer_failed"
	OutcomeInnerFailure = "inner_failure"
	OutcomeClientError  = "client_error"
)

// Reasons for discarding lookup responses
const (
	ReasonMalformedKey    = "malformed_key"
	ReasonUnknownBlock    = "unknown_block"
	ReasonMalformedProofs = "malformed_proofs"
	ReasonNoAuthorities   = "no_authorities"
	ReasonQuorumFailed    = "quorum_failed"
	ReasonStoreFailed     = "store_failed"
)

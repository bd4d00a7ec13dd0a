package dht

import (
	"errors"
	"fmt"

	record "github.com/libp2p/go-libp2p-record"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/module/quorum"
	"github.com/validated-streams/witness-guard/network/codec"
)

// ErrNoRecords is returned by Select when given no candidate values.
var ErrNoRecords = errors.New("no records to select from")

// ProofRecordValidator accepts DHT records whose key is a block lookup key
// and whose value is a well-formed proof bundle. Validate only checks
// structure, since any peer may hold a record before it can be verified.
// Select ranks competing records by their valid signatures from the
// authority set at the best height.
type ProofRecordValidator struct {
	codec       codec.ProofCodec
	verifier    *quorum.Verifier
	chain       module.ChainClient
	authorities module.AuthorityResolver
}

var _ record.Validator = (*ProofRecordValidator)(nil)

func NewProofRecordValidator(
	proofCodec codec.ProofCodec,
	verifier *quorum.Verifier,
	chain module.ChainClient,
	authorities module.AuthorityResolver,
) *ProofRecordValidator {
	return &ProofRecordValidator{
		codec:       proofCodec,
		verifier:    verifier,
		chain:       chain,
		authorities: authorities,
	}
}

// Validate checks the structure of a record.
func (v *ProofRecordValidator) Validate(key string, value []byte) error {
	if _, err := witness.BlockHashFromLookupKey([]byte(key)); err != nil {
		return fmt.Errorf("invalid proof record key: %w", err)
	}
	if _, err := v.codec.DecodeProofs(value); err != nil {
		return fmt.Errorf("invalid proof record value: %w", err)
	}
	return nil
}

// Select prefers the bundle with the most valid signatures by current
// authorities. Signatures by other keys are ignored. Ties, and records that
// fail to decode, resolve to the earliest candidate.
func (v *ProofRecordValidator) Select(_ string, values [][]byte) (int, error) {
	if len(values) == 0 {
		return 0, ErrNoRecords
	}

	height := v.chain.BestHeight()
	authorities, err := v.authorities.AuthoritiesAt(height)
	if err != nil {
		return 0, fmt.Errorf("could not resolve authorities at height %d: %w", height, err)
	}

	best, bestWeight := 0, -1
	for i, value := range values {
		bundle, err := v.codec.DecodeProofs(value)
		if err != nil {
			continue
		}
		weight := v.verifier.Weigh(bundle, authorities)
		if weight > bestWeight {
			best, bestWeight = i, weight
		}
	}
	return best, nil
}

package quorum

import (
	"bytes"
	"fmt"

	"github.com/onflow/flow-go/crypto"
	"github.com/onflow/flow-go/crypto/hash"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/validated-streams/witness-guard/model/witness"
)

// Verifier checks that proof bundles carry a Byzantine quorum of valid
// signatures for a set of events. Verifier holds no mutable state and is
// safe for concurrent use.
type Verifier struct {
	log zerolog.Logger
}

func NewVerifier(log zerolog.Logger) *Verifier {
	return &Verifier{
		log: log.With().Str("component", "quorum_verifier").Logger(),
	}
}

// Verify returns true if and only if, for every outstanding event, the bundle
// holds at least Threshold(len(authorities)) valid signatures and no signature
// from a key outside the authority set.
//
// Expected errors during normal operations:
//   - InvalidProofEncodingError if a signature or a signer's public key is malformed
func (v *Verifier) Verify(bundle witness.ProofBundle, outstanding []witness.Identifier, authorities []witness.ValidatorKey) (bool, error) {
	members := make(map[witness.ValidatorKey]struct{}, len(authorities))
	for _, key := range authorities {
		members[key] = struct{}{}
	}
	threshold := Threshold(len(members))
	if threshold == 0 {
		v.log.Warn().Err(ErrEmptyAuthoritySet).Msg("cannot verify event proofs")
		return false, nil
	}

	for _, event := range outstanding {
		err := v.verifyEvent(event, bundle[event], members, threshold)
		if IsInvalidProofEncodingError(err) {
			return false, fmt.Errorf("malformed proof for event %x: %w", event, err)
		}
		if err != nil {
			v.log.Warn().
				Hex("event_id", event[:]).
				Int("signatures", len(bundle[event])).
				Int("threshold", threshold).
				Err(err).
				Msg("event proofs rejected")
			return false, nil
		}
	}
	return true, nil
}

// verifyEvent returns nil if proofs holds a quorum for event. Signers are
// visited in byte order so that the outcome does not depend on map iteration.
func (v *Verifier) verifyEvent(event witness.Identifier, proofs witness.EventProofs, members map[witness.ValidatorKey]struct{}, threshold int) error {
	if len(proofs) == 0 {
		return ErrEventMissing
	}

	signers := make([]witness.ValidatorKey, 0, len(proofs))
	for signer := range proofs {
		if _, ok := members[signer]; !ok {
			return fmt.Errorf("signer %x: %w", signer[:], ErrUnauthorizedSigner)
		}
		signers = append(signers, signer)
	}
	slices.SortFunc(signers, func(a, b witness.ValidatorKey) int {
		return bytes.Compare(a[:], b[:])
	})

	hasher := hash.NewSHA3_256()
	valid := 0
	for _, signer := range signers {
		if err := verifySignature(hasher, event, signer, proofs[signer]); err != nil {
			return err
		}
		valid++
	}

	if valid < threshold {
		return fmt.Errorf("%d of %d required signatures: %w", valid, threshold, ErrInsufficientQuorum)
	}
	return nil
}

// Weigh returns the number of signatures in bundle that are made by a member
// of authorities and verify against their event. Signatures by other keys and
// malformed or invalid signatures add nothing, so padding a bundle with
// signatures of arbitrary keys does not increase its weight.
func (v *Verifier) Weigh(bundle witness.ProofBundle, authorities []witness.ValidatorKey) int {
	members := make(map[witness.ValidatorKey]struct{}, len(authorities))
	for _, key := range authorities {
		members[key] = struct{}{}
	}

	hasher := hash.NewSHA3_256()
	weight := 0
	for event, proofs := range bundle {
		for signer, sig := range proofs {
			if _, ok := members[signer]; !ok {
				continue
			}
			if verifySignature(hasher, event, signer, sig) == nil {
				weight++
			}
		}
	}
	return weight
}

// verifySignature checks a single signature of signer over event.
func verifySignature(hasher hash.Hasher, event witness.Identifier, signer witness.ValidatorKey, sig witness.Signature) error {
	if len(sig) != crypto.SignatureLenECDSAP256 {
		return NewInvalidProofEncodingErrorf("signature by %x has %d bytes, expected %d", signer[:], len(sig), crypto.SignatureLenECDSAP256)
	}
	pk, err := crypto.DecodePublicKey(crypto.ECDSAP256, signer[:])
	if err != nil {
		return NewInvalidProofEncodingErrorf("could not decode public key %x: %w", signer[:], err)
	}
	ok, err := pk.Verify(crypto.Signature(sig), event[:], hasher)
	if err != nil {
		return NewInvalidProofEncodingErrorf("could not verify signature by %x: %w", signer[:], err)
	}
	if !ok {
		return fmt.Errorf("signer %x: %w", signer[:], ErrInvalidSignature)
	}
	return nil
}

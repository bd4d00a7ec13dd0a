package unittest

import (
	crand "crypto/rand"
	"testing"

	"github.com/onflow/flow-go/crypto"
	"github.com/onflow/flow-go/crypto/hash"
	"github.com/stretchr/testify/require"

	"github.com/validated-streams/witness-guard/model/witness"
)

// Validator is a validator signing key pair used in tests.
type Validator struct {
	PrivateKey crypto.PrivateKey
	Key        witness.ValidatorKey
}

// Sign produces the validator's witness signature over the event.
func (v Validator) Sign(t testing.TB, event witness.Identifier) witness.Signature {
	sig, err := v.PrivateKey.Sign(event[:], hash.NewSHA3_256())
	require.NoError(t, err)
	return witness.Signature(sig)
}

func ValidatorFixture(t testing.TB) Validator {
	seed := make([]byte, crypto.KeyGenSeedMinLen)
	_, err := crand.Read(seed)
	require.NoError(t, err)

	sk, err := crypto.GeneratePrivateKey(crypto.ECDSAP256, seed)
	require.NoError(t, err)

	key, err := witness.ValidatorKeyFromBytes(sk.PublicKey().Encode())
	require.NoError(t, err)
	return Validator{PrivateKey: sk, Key: key}
}

func ValidatorListFixture(t testing.TB, n int) []Validator {
	validators := make([]Validator, 0, n)
	for i := 0; i < n; i++ {
		validators = append(validators, ValidatorFixture(t))
	}
	return validators
}

// AuthoritiesFixture returns the keys of the given validators.
func AuthoritiesFixture(validators []Validator) []witness.ValidatorKey {
	keys := make([]witness.ValidatorKey, 0, len(validators))
	for _, v := range validators {
		keys = append(keys, v.Key)
	}
	return keys
}

// ProofBundleFixture returns a bundle in which every signer witnesses every event.
func ProofBundleFixture(t testing.TB, events []witness.Identifier, signers []Validator) witness.ProofBundle {
	bundle := witness.NewProofBundle()
	for _, event := range events {
		for _, signer := range signers {
			bundle.AddSignature(event, signer.Key, signer.Sign(t, event))
		}
	}
	return bundle
}

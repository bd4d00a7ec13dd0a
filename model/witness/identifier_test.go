package witness_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/utils/unittest"
)

func TestByteSliceToID(t *testing.T) {
	t.Run("exact length", func(t *testing.T) {
		expected := unittest.IdentifierFixture()
		id, err := witness.ByteSliceToID(expected[:])
		require.NoError(t, err)
		assert.Equal(t, expected, id)
	})

	t.Run("wrong length", func(t *testing.T) {
		for _, n := range []int{0, 1, 31, 33, 64} {
			_, err := witness.ByteSliceToID(make([]byte, n))
			require.Error(t, err)
			assert.True(t, witness.IsInvalidEncodingError(err), "length %d", n)
		}
	})
}

func TestIdentifierFormat(t *testing.T) {
	id := unittest.IdentifierFixture()
	assert.Equal(t, id.String(), fmt.Sprintf("%v", id))
	assert.Equal(t, id.String(), fmt.Sprintf("%x", id))

	parsed, err := witness.HexStringToIdentifier(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = witness.HexStringToIdentifier("zz")
	assert.True(t, witness.IsInvalidEncodingError(err))
}

func TestLookupKey(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		blockHash := unittest.IdentifierFixture()
		decoded, err := witness.BlockHashFromLookupKey(witness.LookupKey(blockHash))
		require.NoError(t, err)
		assert.Equal(t, blockHash, decoded)
	})

	t.Run("distinct blocks give distinct keys", func(t *testing.T) {
		a, b := unittest.IdentifierFixture(), unittest.IdentifierFixture()
		assert.NotEqual(t, witness.LookupKey(a), witness.LookupKey(b))
	})

	t.Run("truncated key", func(t *testing.T) {
		key := witness.LookupKey(unittest.IdentifierFixture())
		_, err := witness.BlockHashFromLookupKey(key[:len(key)-1])
		assert.True(t, witness.IsInvalidEncodingError(err))
	})

	t.Run("raw hash without namespace", func(t *testing.T) {
		blockHash := unittest.IdentifierFixture()
		_, err := witness.BlockHashFromLookupKey(blockHash[:])
		assert.True(t, witness.IsInvalidEncodingError(err))
	})
}

func TestHeaderID(t *testing.T) {
	header := unittest.HeaderFixture()
	assert.Equal(t, header.ID(), header.ID())

	other := header
	other.Height++
	assert.NotEqual(t, header.ID(), other.ID())
}

func TestProofBundle(t *testing.T) {
	event := unittest.IdentifierFixture()
	signerA, signerB := unittest.ValidatorKeyFixture(), unittest.ValidatorKeyFixture()

	bundle := witness.NewProofBundle()
	bundle.AddSignature(event, signerA, witness.Signature{1})

	other := witness.NewProofBundle()
	other.AddSignature(event, signerB, witness.Signature{2})
	other.AddSignature(unittest.IdentifierFixture(), signerB, witness.Signature{3})

	bundle.Merge(other)
	assert.Equal(t, 2, bundle.SignatureCount(event))
	assert.Len(t, bundle.Events(), 2)

	filtered := bundle.Filter([]witness.Identifier{event, unittest.IdentifierFixture()})
	assert.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered.SignatureCount(event))
}

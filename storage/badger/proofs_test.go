package badger_test

import (
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validated-streams/witness-guard/model/witness"
	badgerstorage "github.com/validated-streams/witness-guard/storage/badger"
	"github.com/validated-streams/witness-guard/utils/unittest"
)

func TestProofs_AddGet(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := badgerstorage.NewProofs(db, 10)

		events := unittest.IdentifierListFixture(2)
		signers := unittest.ValidatorListFixture(t, 3)
		bundle := unittest.ProofBundleFixture(t, events, signers)

		require.NoError(t, store.Add(bundle))

		actual, err := store.Get(events)
		require.NoError(t, err)
		assert.Equal(t, bundle, actual)
	})
}

func TestProofs_GetUnknownEvents(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := badgerstorage.NewProofs(db, 10)

		known := unittest.IdentifierFixture()
		unknown := unittest.IdentifierFixture()
		require.NoError(t, store.Add(unittest.ProofBundleFixture(t, []witness.Identifier{known}, unittest.ValidatorListFixture(t, 1))))

		actual, err := store.Get([]witness.Identifier{known, unknown})
		require.NoError(t, err)
		assert.Len(t, actual, 1)
		assert.Contains(t, actual, known)
		assert.NotContains(t, actual, unknown)

		empty, err := store.Get(nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

// TestProofs_Merge checks that adding proofs for an event extends the stored
// signer set and keeps previously stored signatures.
func TestProofs_Merge(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := badgerstorage.NewProofs(db, 10)

		event := unittest.IdentifierFixture()
		signers := unittest.ValidatorListFixture(t, 3)
		first := unittest.ProofBundleFixture(t, []witness.Identifier{event}, signers[:2])
		require.NoError(t, store.Add(first))

		// signers[1] re-signs with a different signature, signers[2] is new
		second := witness.NewProofBundle()
		second.AddSignature(event, signers[1].Key, unittest.SignatureFixture())
		second.AddSignature(event, signers[2].Key, signers[2].Sign(t, event))
		require.NoError(t, store.Add(second))

		actual, err := store.Get([]witness.Identifier{event})
		require.NoError(t, err)
		require.Len(t, actual[event], 3)
		assert.Equal(t, first[event][signers[1].Key], actual[event][signers[1].Key])
		assert.Equal(t, second[event][signers[2].Key], actual[event][signers[2].Key])
	})
}

// TestProofs_Persistence checks that proofs survive a fresh store instance
// with an empty cache.
func TestProofs_Persistence(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		events := unittest.IdentifierListFixture(3)
		bundle := unittest.ProofBundleFixture(t, events, unittest.ValidatorListFixture(t, 2))
		require.NoError(t, badgerstorage.NewProofs(db, 10).Add(bundle))

		actual, err := badgerstorage.NewProofs(db, 10).Get(events)
		require.NoError(t, err)
		assert.Equal(t, bundle, actual)
	})
}

// TestProofs_ReturnedBundleIsOwned checks that mutating a returned bundle
// does not affect the store.
func TestProofs_ReturnedBundleIsOwned(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := badgerstorage.NewProofs(db, 10)
		event := unittest.IdentifierFixture()
		require.NoError(t, store.Add(unittest.ProofBundleFixture(t, []witness.Identifier{event}, unittest.ValidatorListFixture(t, 1))))

		first, err := store.Get([]witness.Identifier{event})
		require.NoError(t, err)
		first.AddSignature(event, unittest.ValidatorKeyFixture(), unittest.SignatureFixture())

		second, err := store.Get([]witness.Identifier{event})
		require.NoError(t, err)
		assert.Len(t, second[event], 1)
	})
}

func TestProofs_ConcurrentAdd(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := badgerstorage.NewProofs(db, 10)
		event := unittest.IdentifierFixture()
		signers := unittest.ValidatorListFixture(t, 8)

		var wg sync.WaitGroup
		for _, signer := range signers {
			bundle := witness.NewProofBundle()
			bundle.AddSignature(event, signer.Key, signer.Sign(t, event))
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Add(bundle))
			}()
		}
		unittest.RequireReturnsBefore(t, wg.Wait, unittest.DefaultReturnTimeout, "concurrent adds did not finish")

		actual, err := store.Get([]witness.Identifier{event})
		require.NoError(t, err)
		assert.Len(t, actual[event], len(signers))
	})
}

func TestInitDB(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		db, err := badgerstorage.InitDB(dir)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		// reopening an initialized database succeeds
		db, err = badgerstorage.InitDB(dir)
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})
}

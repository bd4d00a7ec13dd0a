package badger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v2"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/storage"
	"github.com/validated-streams/witness-guard/storage/badger/operation"
)

// Proofs implements a persistent witness proof store backed by badger.
// Signatures are keyed by event; adding a bundle merges it with what is
// already stored and never drops a known signature.
type Proofs struct {
	db    *badger.DB
	cache *Cache[witness.Identifier, witness.EventProofs]
	// serializes read-modify-write merges
	writeMu sync.Mutex
}

var _ module.ProofStore = (*Proofs)(nil)

func NewProofs(db *badger.DB, cacheSize uint) *Proofs {
	retrieve := func(eventID witness.Identifier) func(*badger.Txn) (witness.EventProofs, error) {
		return func(tx *badger.Txn) (witness.EventProofs, error) {
			var stored []operation.StoredProof
			err := operation.RetrieveEventProofs(eventID, &stored)(tx)
			if err != nil {
				return nil, err
			}
			return fromStored(stored)
		}
	}

	return &Proofs{
		db: db,
		cache: newCache[witness.Identifier, witness.EventProofs](
			withLimit[witness.Identifier, witness.EventProofs](cacheSize),
			withRetrieve(retrieve),
		),
	}
}

// Get returns the proofs known for the given events. Events without any
// stored proof are absent from the result. The returned bundle is owned by
// the caller.
func (p *Proofs) Get(eventIDs []witness.Identifier) (witness.ProofBundle, error) {
	bundle := witness.NewProofBundle()
	err := p.db.View(func(tx *badger.Txn) error {
		for _, eventID := range eventIDs {
			proofs, err := p.cache.Get(eventID)(tx)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("could not retrieve proofs for event %v: %w", eventID, err)
			}
			for signer, sig := range proofs {
				bundle.AddSignature(eventID, signer, sig)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Add merges the bundle into the store. For a signer already recorded on an
// event, the stored signature is kept.
func (p *Proofs) Add(bundle witness.ProofBundle) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	merged := make(map[witness.Identifier]witness.EventProofs, len(bundle))
	err := p.db.Update(func(tx *badger.Txn) error {
		for eventID, incoming := range bundle {
			if len(incoming) == 0 {
				continue
			}

			existing, err := p.cache.Get(eventID)(tx)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("could not retrieve proofs for event %v: %w", eventID, err)
			}

			combined := make(witness.EventProofs, len(existing)+len(incoming))
			for signer, sig := range incoming {
				combined[signer] = sig
			}
			for signer, sig := range existing {
				combined[signer] = sig
			}
			if len(combined) == len(existing) {
				continue
			}

			err = operation.UpsertEventProofs(eventID, toStored(combined))(tx)
			if err != nil {
				return fmt.Errorf("could not store proofs for event %v: %w", eventID, err)
			}
			merged[eventID] = combined
		}
		return nil
	})
	if err != nil {
		// the cache may have been populated with values read in the aborted
		// transaction, which are still the committed ones
		return err
	}

	for eventID, proofs := range merged {
		p.cache.Insert(eventID, proofs)
	}
	return nil
}

func toStored(proofs witness.EventProofs) []operation.StoredProof {
	stored := make([]operation.StoredProof, 0, len(proofs))
	for signer, sig := range proofs {
		signer := signer
		stored = append(stored, operation.StoredProof{
			Signer:    signer[:],
			Signature: append([]byte(nil), sig...),
		})
	}
	return stored
}

func fromStored(stored []operation.StoredProof) (witness.EventProofs, error) {
	proofs := make(witness.EventProofs, len(stored))
	for _, proof := range stored {
		signer, err := witness.ValidatorKeyFromBytes(proof.Signer)
		if err != nil {
			return nil, fmt.Errorf("corrupted signer in stored proof: %w", err)
		}
		proofs[signer] = witness.Signature(proof.Signature)
	}
	return proofs, nil
}

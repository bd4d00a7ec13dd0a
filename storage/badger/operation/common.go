package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/validated-streams/witness-guard/storage"
)

// insert stores entity under key. Returns storage.ErrAlreadyExists if the
// key is already taken.
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key %x: %w", key, err)
		}
		return set(tx, key, entity)
	}
}

// upsert stores entity under key, overwriting any previous value.
func upsert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		return set(tx, key, entity)
	}
}

func set(tx *badger.Txn, key []byte, entity interface{}) error {
	val, err := encodeEntity(entity)
	if err != nil {
		return err
	}
	if err := tx.Set(key, val); err != nil {
		return fmt.Errorf("could not write key %x: %w", key, err)
	}
	return nil
}

func exists(key []byte, keyExists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			*keyExists = false
		case err != nil:
			return fmt.Errorf("could not check key %x: %w", key, err)
		default:
			*keyExists = true
		}
		return nil
	}
}

// retrieve decodes the value under key into entity, which must be a pointer.
// Returns storage.ErrNotFound if the key is absent. Any other error is
// unexpected.
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not read key %x: %w", key, err)
		}
		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode value of key %x: %w", key, err)
		}
		return nil
	}
}

package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned by storage lookups for absent keys. Badger's own
	// badger.ErrKeyNotFound never leaves the storage packages.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when inserting under a key that is taken.
	ErrAlreadyExists = errors.New("key already exists")
)

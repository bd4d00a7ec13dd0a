package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/validated-streams/witness-guard/storage/badger/operation"
)

// InitDB opens a badger database at dir and checks its layout version,
// writing the current version into a fresh database.
func InitDB(dir string) (*badger.DB, error) {
	opts := badger.
		DefaultOptions(dir).
		WithKeepL0InMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open proof database: %w", err)
	}

	err = db.Update(func(tx *badger.Txn) error {
		var initialized bool
		err := operation.HasDBVersion(&initialized)(tx)
		if err != nil {
			return err
		}
		if !initialized {
			return operation.InsertDBVersion(operation.CurrentDBVersion())(tx)
		}

		var version uint32
		err = operation.RetrieveDBVersion(&version)(tx)
		if err != nil {
			return err
		}
		if version != operation.CurrentDBVersion() {
			return fmt.Errorf("unsupported proof database version %d (expected %d)", version, operation.CurrentDBVersion())
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not initialize proof database: %w", err)
	}
	return db, nil
}

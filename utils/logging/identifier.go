package logging

import (
	"github.com/validated-streams/witness-guard/model/witness"
)

// Entity is anything identified by its hash.
type Entity interface {
	ID() witness.Identifier
}

func ID(entity Entity) []byte {
	id := entity.ID()
	return id[:]
}

func IDs(ids []witness.Identifier) []string {
	return witness.IdentifierList(ids).Strings()
}

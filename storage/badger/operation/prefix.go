package operation

import (
	"github.com/validated-streams/witness-guard/model/witness"
)

const (
	// codes for special database markers
	codeDBVersion = 1

	// codes for witness proofs
	codeEventProofs = 20
)

// dbVersion is the layout version of the proof database.
const dbVersion uint32 = 1

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := []byte{code}
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case witness.Identifier:
		return i[:]
	default:
		panic("unsupported type to convert")
	}
}

package witness

import (
	"strings"
)

// LookupNamespace is the DHT record namespace under which proof bundles are
// published. libp2p routes and validates records by this prefix.
const LookupNamespace = "witness"

const lookupKeyPrefix = "/" + LookupNamespace + "/"

// LookupKey derives the distributed lookup key for a block's proof bundle.
// The mapping is injective: the raw block hash follows a fixed prefix.
func LookupKey(blockHash Identifier) []byte {
	key := make([]byte, 0, len(lookupKeyPrefix)+IdentifierLen)
	key = append(key, lookupKeyPrefix...)
	return append(key, blockHash[:]...)
}

// BlockHashFromLookupKey is the inverse of LookupKey. Keys from another
// namespace or of the wrong length yield an InvalidEncodingError.
func BlockHashFromLookupKey(key []byte) (Identifier, error) {
	s := string(key)
	if !strings.HasPrefix(s, lookupKeyPrefix) {
		return ZeroID, NewInvalidEncodingErrorf("lookup key is outside the %q namespace", LookupNamespace)
	}
	return ByteSliceToID(key[len(lookupKeyPrefix):])
}

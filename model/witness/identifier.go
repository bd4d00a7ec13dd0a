package witness

import (
	"encoding/hex"
	"fmt"
)

// IdentifierLen is the byte length of event identifiers and block hashes.
const IdentifierLen = 32

// Identifier is a 256-bit opaque identifier. It is used both for application
// events (EventID) and for blocks (BlockHash).
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// ByteSliceToID converts a byte slice into an Identifier. It fails with an
// InvalidEncodingError unless the slice holds exactly IdentifierLen bytes.
func ByteSliceToID(b []byte) (Identifier, error) {
	var id Identifier
	if len(b) != IdentifierLen {
		return id, NewInvalidEncodingErrorf("identifier has %d bytes, expected %d", len(b), IdentifierLen)
	}
	copy(id[:], b)
	return id, nil
}

// HexStringToIdentifier converts a hex string to an Identifier.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	b, err := hex.DecodeString(hexString)
	if err != nil {
		return ZeroID, NewInvalidEncodingErrorf("malformed hex identifier: %w", err)
	}
	return ByteSliceToID(b)
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Format handles formatting of id for different verbs. This is called when
// formatting an identifier with fmt.
func (id Identifier) Format(state fmt.State, verb rune) {
	switch verb {
	case 'x', 's', 'v':
		_, _ = state.Write([]byte(id.String()))
	default:
		_, _ = state.Write([]byte(fmt.Sprintf("%%!%c(witness.Identifier=%s)", verb, id)))
	}
}

// MarshalText returns the hex encoding of the identifier.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex encoded identifier.
func (id *Identifier) UnmarshalText(text []byte) error {
	var err error
	*id, err = HexStringToIdentifier(string(text))
	return err
}

// IdentifierList is an ordered list of identifiers.
type IdentifierList []Identifier

// Len returns the number of identifiers in the list.
func (il IdentifierList) Len() int {
	return len(il)
}

// Strings returns the hex representations of all identifiers, in order.
func (il IdentifierList) Strings() []string {
	list := make([]string, 0, len(il))
	for _, id := range il {
		list = append(list, id.String())
	}
	return list
}

// Copy returns a copy of the list backed by a new array.
func (il IdentifierList) Copy() IdentifierList {
	cpy := make(IdentifierList, len(il))
	copy(cpy, il)
	return cpy
}

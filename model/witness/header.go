package witness

import (
	"encoding/binary"
	"time"

	"github.com/onflow/flow-go/crypto/hash"
)

// Header contains the fields of a block header that determine its hash.
type Header struct {
	ParentID    Identifier
	Height      uint64
	PayloadHash Identifier
	Timestamp   time.Time
}

// ID returns the block hash of the header: SHA3-256 over the parent ID, the
// big-endian height, the payload hash and the unix-nano timestamp.
func (h Header) ID() Identifier {
	buf := make([]byte, 0, 2*IdentifierLen+16)
	buf = append(buf, h.ParentID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, h.Height)
	buf = append(buf, h.PayloadHash[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(h.Timestamp.UTC().UnixNano()))

	hasher := hash.NewSHA3_256()
	var id Identifier
	copy(id[:], hasher.ComputeHash(buf))
	return id
}

// Transaction is an encoded transaction (extrinsic) as carried in a block body.
// Its content is only interpreted by the event extraction service.
type Transaction []byte

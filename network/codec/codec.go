package codec

import (
	"github.com/validated-streams/witness-guard/model/witness"
)

// ProofCodec converts proof bundles to and from their network representation.
type ProofCodec interface {
	// EncodeProofs returns the wire encoding of bundle. The encoding is
	// deterministic: equal bundles encode to equal bytes.
	EncodeProofs(bundle witness.ProofBundle) ([]byte, error)

	// DecodeProofs parses a wire encoded bundle.
	// Expected errors during normal operations:
	//   - witness.InvalidEncodingError if data is not a well-formed bundle
	DecodeProofs(data []byte) (witness.ProofBundle, error)
}

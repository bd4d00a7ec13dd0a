package cbor

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/network/codec"
)

const wireVersion = 1

// maxWireElements caps the array lengths accepted from the network.
const maxWireElements = 16384

type wireProof struct {
	Signer    []byte `cbor:"1,keyasint"`
	Signature []byte `cbor:"2,keyasint"`
}

type wireEvent struct {
	Event  []byte      `cbor:"1,keyasint"`
	Proofs []wireProof `cbor:"2,keyasint"`
}

type wireBundle struct {
	Version uint8       `cbor:"1,keyasint"`
	Events  []wireEvent `cbor:"2,keyasint"`
}

// Codec encodes proof bundles as canonical CBOR.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

var _ codec.ProofCodec = (*Codec)(nil)

func NewCodec() *Codec {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not build canonical cbor encoding mode: %v", err))
	}
	decMode, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: maxWireElements,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not build cbor decoding mode: %v", err))
	}
	return &Codec{encMode: encMode, decMode: decMode}
}

// EncodeProofs encodes bundle with events and signers in byte order.
func (c *Codec) EncodeProofs(bundle witness.ProofBundle) ([]byte, error) {
	wire := wireBundle{
		Version: wireVersion,
		Events:  make([]wireEvent, 0, len(bundle)),
	}
	for _, event := range bundle.Events() {
		proofs := bundle[event]
		signers := make([]witness.ValidatorKey, 0, len(proofs))
		for signer := range proofs {
			signers = append(signers, signer)
		}
		sort.Slice(signers, func(i, j int) bool {
			return bytes.Compare(signers[i][:], signers[j][:]) < 0
		})

		we := wireEvent{
			Event:  append([]byte(nil), event[:]...),
			Proofs: make([]wireProof, 0, len(signers)),
		}
		for _, signer := range signers {
			we.Proofs = append(we.Proofs, wireProof{
				Signer:    append([]byte(nil), signer[:]...),
				Signature: proofs[signer],
			})
		}
		wire.Events = append(wire.Events, we)
	}

	data, err := c.encMode.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("could not encode proof bundle: %w", err)
	}
	return data, nil
}

// DecodeProofs decodes a bundle and checks the length of every identifier
// and key. All structural problems are reported together.
func (c *Codec) DecodeProofs(data []byte) (witness.ProofBundle, error) {
	var wire wireBundle
	err := c.decMode.Unmarshal(data, &wire)
	if err != nil {
		return nil, witness.NewInvalidEncodingErrorf("could not decode proof bundle: %w", err)
	}
	if wire.Version != wireVersion {
		return nil, witness.NewInvalidEncodingErrorf("unsupported proof bundle version %d", wire.Version)
	}

	var errs *multierror.Error
	bundle := witness.NewProofBundle()
	for i, we := range wire.Events {
		event, err := witness.ByteSliceToID(we.Event)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("event %d: %w", i, err))
			continue
		}
		if _, duplicate := bundle[event]; duplicate {
			errs = multierror.Append(errs, fmt.Errorf("event %x listed twice", event))
			continue
		}
		proofs := make(witness.EventProofs, len(we.Proofs))
		for j, wp := range we.Proofs {
			signer, err := witness.ValidatorKeyFromBytes(wp.Signer)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("event %x proof %d: %w", event, j, err))
				continue
			}
			if _, duplicate := proofs[signer]; duplicate {
				errs = multierror.Append(errs, fmt.Errorf("event %x signed twice by %x", event, signer[:]))
				continue
			}
			proofs[signer] = wp.Signature
		}
		bundle[event] = proofs
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, witness.NewInvalidEncodingError(err)
	}
	return bundle, nil
}

package dht

import (
	"context"
	"fmt"

	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/validated-streams/witness-guard/model/witness"
)

// ProtocolPrefix isolates the witness DHT from other Kademlia networks.
const ProtocolPrefix protocol.ID = "/witness-guard"

// NewDHT creates and bootstraps a Kademlia DHT on host that accepts proof
// bundle records in the witness namespace, as judged by validator.
// on the name, see https://github.com/libp2p/go-libp2p-kad-dht/issues/337
func NewDHT(ctx context.Context, host host.Host, validator *ProofRecordValidator, options ...dht.Option) (*dht.IpfsDHT, error) {
	defaultOptions := defaultDHTOptions(validator)
	allOptions := append(defaultOptions, options...)

	kdht, err := dht.New(ctx, host, allOptions...)
	if err != nil {
		return nil, fmt.Errorf("could not create dht: %w", err)
	}

	if err = kdht.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("could not bootstrap dht: %w", err)
	}

	return kdht, nil
}

// AsServer selects the DHT mode. DHT defaults to ModeAuto which will automatically switch the DHT
// between Server and Client modes based on whether the node appears to be publicly reachable.
// This default tends to make test setups fail (since the test nodes are normally not reachable by
// the public network), but is useful for improving the stability and performance of live networks.
func AsServer(enable bool) dht.Option {
	if enable {
		return dht.Mode(dht.ModeServer)
	}
	return dht.Mode(dht.ModeClient)
}

func defaultDHTOptions(validator *ProofRecordValidator) []dht.Option {
	return []dht.Option{
		dht.ProtocolPrefix(ProtocolPrefix),
		dht.NamespacedValidator(witness.LookupNamespace, validator),
	}
}

package dht

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentDials bounds the bootstrap dials in flight.
const maxConcurrentDials = 8

// ParseBootstrapPeers parses multiaddrs that end in a /p2p/<peer id>
// component. Addresses of the same peer are merged into one AddrInfo.
func ParseBootstrapPeers(addrs []string) ([]peer.AddrInfo, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	parsed := make([]multiaddr.Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		ma, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid bootstrap address %q: %w", addr, err)
		}
		parsed = append(parsed, ma)
	}
	infos, err := peer.AddrInfosFromP2pAddrs(parsed...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap address without peer id: %w", err)
	}
	return infos, nil
}

// ConnectBootstrapPeers dials every bootstrap peer. It fails only if there
// were peers to dial and none of them could be reached; individual failures
// are logged.
func ConnectBootstrapPeers(ctx context.Context, log zerolog.Logger, h host.Host, peers []peer.AddrInfo) error {
	if len(peers) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDials)
	for _, info := range peers {
		info := info
		group.Go(func() error {
			err := h.Connect(ctx, info)
			if err != nil {
				log.Warn().Err(err).Str("peer_id", info.ID.String()).Msg("could not connect to bootstrap peer")
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("peer %s: %w", info.ID, err))
				mu.Unlock()
				return nil
			}
			log.Debug().Str("peer_id", info.ID.String()).Msg("connected to bootstrap peer")
			return nil
		})
	}
	_ = group.Wait()

	if errs != nil && len(errs.Errors) == len(peers) {
		return fmt.Errorf("could not reach any bootstrap peer: %w", errs.ErrorOrNil())
	}
	return nil
}

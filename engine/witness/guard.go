package witness

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	kaddht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/validated-streams/witness-guard/engine/witness/deferred"
	"github.com/validated-streams/witness-guard/engine/witness/importer"
	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/module/component"
	"github.com/validated-streams/witness-guard/module/irrecoverable"
	"github.com/validated-streams/witness-guard/module/quorum"
	"github.com/validated-streams/witness-guard/module/util"
	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/network/codec/cbor"
	"github.com/validated-streams/witness-guard/network/p2p/dht"
	badgerstorage "github.com/validated-streams/witness-guard/storage/badger"
)

// Guard assembles the witness import guard: the import stage wrapping the
// node's block import, and the registry resolving deferred blocks in the
// background. The lookup network may be bound after the guard started.
type Guard struct {
	*component.ComponentManager
	log      zerolog.Logger
	registry *deferred.Registry
	importer *importer.WitnessBlockImport
}

func NewGuard(
	log zerolog.Logger,
	collector module.WitnessMetrics,
	tracer trace.Tracer,
	config Config,
	inner importer.BlockImport,
	chain module.ChainClient,
	extractor module.EventExtractor,
	authorities module.AuthorityResolver,
	store module.ProofStore,
) (*Guard, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid witness guard config: %w", err)
	}

	proofCodec := cbor.NewCodec()
	registry := deferred.NewRegistry(
		log,
		collector,
		deferred.Config{
			MaxBlocks:         config.MaxDeferredBlocks,
			TTL:               config.DeferralTTL,
			RerequestInterval: config.RerequestInterval,
		},
		store,
		authorities,
		chain,
		proofCodec,
	)

	g := &Guard{
		log:      log.With().Str("component", "witness_guard").Logger(),
		registry: registry,
		importer: importer.NewWitnessBlockImport(log, collector, tracer, inner, chain, extractor, store, registry, proofCodec),
	}

	g.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
			g.registry.Start(ctx)
			if err := util.WaitClosed(ctx, g.registry.Ready()); err != nil {
				return
			}
			ready()
			<-g.registry.Done()
		}).
		Build()

	return g, nil
}

// BlockImport returns the import stage to install in place of the inner stage.
func (g *Guard) BlockImport() importer.BlockImport {
	return g.importer
}

// Registry returns the deferred block registry.
func (g *Guard) Registry() *deferred.Registry {
	return g.registry
}

// BindNetwork attaches the lookup network once it is available.
func (g *Guard) BindNetwork(net network.LookupNetwork) {
	g.registry.Bind(net)
}

// NewDHTLookupNetwork starts a Kademlia DHT on host, dials the configured
// bootstrap peers and returns a lookup network over the DHT. Competing
// records are ranked against the authorities at the chain's best height.
// The caller is responsible for stopping the lookup network and closing the DHT.
func NewDHTLookupNetwork(
	ctx context.Context,
	log zerolog.Logger,
	host host.Host,
	config Config,
	chain module.ChainClient,
	authorities module.AuthorityResolver,
) (*dht.LookupNetwork, *kaddht.IpfsDHT, error) {
	peers, err := dht.ParseBootstrapPeers(config.BootstrapPeers)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid bootstrap peers: %w", err)
	}
	validator := dht.NewProofRecordValidator(cbor.NewCodec(), quorum.NewVerifier(log), chain, authorities)
	kdht, err := dht.NewDHT(ctx, host, validator, dht.AsServer(config.DHTServerMode))
	if err != nil {
		return nil, nil, fmt.Errorf("could not start witness dht: %w", err)
	}
	if err := dht.ConnectBootstrapPeers(ctx, log, host, peers); err != nil {
		_ = kdht.Close()
		return nil, nil, fmt.Errorf("could not join witness dht: %w", err)
	}
	return dht.NewLookupNetwork(log, kdht, config.LookupConfig()), kdht, nil
}

// OpenProofStore opens the badger-backed proof store in dir.
func OpenProofStore(dir string, config Config) (*badgerstorage.Proofs, *badger.DB, error) {
	db, err := badgerstorage.InitDB(dir)
	if err != nil {
		return nil, nil, err
	}
	return badgerstorage.NewProofs(db, config.ProofCacheSize), db, nil
}

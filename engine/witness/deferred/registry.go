package deferred

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/module/component"
	"github.com/validated-streams/witness-guard/module/irrecoverable"
	"github.com/validated-streams/witness-guard/module/metrics"
	"github.com/validated-streams/witness-guard/module/quorum"
	"github.com/validated-streams/witness-guard/module/util"
	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/network/codec"
	"github.com/validated-streams/witness-guard/utils/logging"
)

// entry is a block awaiting proofs for its outstanding events.
type entry struct {
	outstanding []witness.Identifier
	deferredAt  time.Time
	requestedAt time.Time
	// read by the eviction callback outside of the registry lock
	requests atomic.Uint32
	resolved atomic.Bool
}

// Registry tracks blocks whose import was deferred because some of their
// events lack a quorum of witness proofs. For each deferred block it looks up
// the proofs on the lookup network, verifies the responses against the
// current authority set and persists verified proofs. The registry never
// re-drives block import: a resolved block is imported when the consensus
// layer offers it again.
//
// Deferred blocks are bounded in number and expire after a configured time.
type Registry struct {
	*component.ComponentManager
	log               zerolog.Logger
	metrics           module.WitnessMetrics
	verifier          *quorum.Verifier
	store             module.ProofStore
	authorities       module.AuthorityResolver
	chain             module.ChainClient
	codec             codec.ProofCodec
	rerequestInterval time.Duration

	// mu makes read-decide-mutate sequences on pending atomic. The LRU has
	// its own lock; the eviction callback runs under it and must not take mu.
	mu      sync.Mutex
	pending *expirable.LRU[witness.Identifier, *entry]
	// set while pending is purged on shutdown, so purged entries are not
	// counted as evictions
	purging atomic.Bool

	// the network is bound once, possibly after construction
	netMu     sync.RWMutex
	net       network.LookupNetwork
	events    <-chan network.LookupEvent
	bound     chan struct{}
	subCtx    context.Context
	subCancel context.CancelFunc
}

// Config bounds the registry.
type Config struct {
	// MaxBlocks is the maximum number of deferred blocks. When exceeded, the
	// least recently deferred block is evicted.
	MaxBlocks uint
	// TTL is how long a block stays deferred. Zero disables expiry.
	TTL time.Duration
	// RerequestInterval is the minimum age of the last lookup for a block
	// before a repeated Defer issues another lookup.
	RerequestInterval time.Duration
}

func NewRegistry(
	log zerolog.Logger,
	collector module.WitnessMetrics,
	config Config,
	store module.ProofStore,
	authorities module.AuthorityResolver,
	chain module.ChainClient,
	proofCodec codec.ProofCodec,
) *Registry {
	subCtx, subCancel := context.WithCancel(context.Background())
	r := &Registry{
		log:               log.With().Str("component", "deferred_blocks").Logger(),
		metrics:           collector,
		verifier:          quorum.NewVerifier(log),
		store:             store,
		authorities:       authorities,
		chain:             chain,
		codec:             proofCodec,
		rerequestInterval: config.RerequestInterval,
		bound:             make(chan struct{}),
		subCtx:            subCtx,
		subCancel:         subCancel,
	}
	r.pending = expirable.NewLRU[witness.Identifier, *entry](int(config.MaxBlocks), r.onEvict, config.TTL)

	r.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(r.listen).
		Build()

	return r
}

// Bind attaches the lookup network. Only the first call has an effect;
// later calls are logged and ignored.
func (r *Registry) Bind(net network.LookupNetwork) {
	r.netMu.Lock()
	defer r.netMu.Unlock()

	if r.net != nil {
		r.log.Warn().Msg("lookup network already bound, ignoring")
		return
	}
	r.net = net
	// subscribe before any lookup can be issued so that no response is missed
	r.events = net.Subscribe(r.subCtx)
	close(r.bound)
	r.log.Info().Msg("lookup network bound")
}

func (r *Registry) network() network.LookupNetwork {
	r.netMu.RLock()
	defer r.netMu.RUnlock()
	return r.net
}

// LookupNetwork returns the bound lookup network, if any.
func (r *Registry) LookupNetwork() (network.LookupNetwork, bool) {
	net := r.network()
	return net, net != nil
}

// Defer registers the block as awaiting proofs for the outstanding events and
// requests the proofs from the lookup network. Deferring a block that is
// already pending keeps the existing entry and only re-requests its proofs if
// the previous request is older than the re-request interval.
//
// Expected errors during normal operations:
//   - ErrNetworkUnavailable if no lookup network is bound yet
func (r *Registry) Defer(blockHash witness.Identifier, outstanding []witness.Identifier) error {
	net := r.network()
	if net == nil {
		r.metrics.DeferralDropped()
		r.log.Error().
			Hex("block_id", blockHash[:]).
			Int("outstanding", len(outstanding)).
			Msg("cannot defer block, lookup network unavailable")
		return ErrNetworkUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if e, ok := r.pending.Peek(blockHash); ok {
		if now.Sub(e.requestedAt) < r.rerequestInterval {
			r.log.Debug().
				Hex("block_id", blockHash[:]).
				Msg("redundant deferral of pending block")
			return nil
		}
		e.requestedAt = now
		requests := e.requests.Inc()
		r.log.Debug().
			Hex("block_id", blockHash[:]).
			Uint32("requests", requests).
			Msg("re-requesting proofs of pending block")
		r.request(net, blockHash)
		return nil
	}

	e := &entry{
		outstanding: witness.IdentifierList(outstanding).Copy(),
		deferredAt:  now,
		requestedAt: now,
	}
	e.requests.Store(1)
	r.pending.Add(blockHash, e)
	r.metrics.BlockDeferred()
	r.metrics.DeferredBlocks(uint(r.pending.Len()))
	r.log.Info().
		Hex("block_id", blockHash[:]).
		Strs("outstanding_ids", logging.IDs(outstanding)).
		Msg("block deferred awaiting witness proofs")

	r.request(net, blockHash)
	return nil
}

func (r *Registry) request(net network.LookupNetwork, blockHash witness.Identifier) {
	net.GetValue(witness.LookupKey(blockHash))
	r.metrics.LookupRequested()
}

// Pending returns the outstanding events of a deferred block.
func (r *Registry) Pending(blockHash witness.Identifier) (witness.IdentifierList, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.pending.Peek(blockHash)
	if !ok {
		return nil, false
	}
	return witness.IdentifierList(e.outstanding).Copy(), true
}

// Size returns the number of deferred blocks.
func (r *Registry) Size() uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint(r.pending.Len())
}

func (r *Registry) onEvict(blockHash witness.Identifier, e *entry) {
	if e.resolved.Load() || r.purging.Load() {
		return
	}
	r.metrics.DeferredBlockEvicted()
	r.log.Warn().
		Hex("block_id", blockHash[:]).
		Dur("deferred_for", time.Since(e.deferredAt)).
		Uint32("requests", e.requests.Load()).
		Msg("dropping deferred block without proofs")
}

// listen processes lookup responses in the order the network delivers them.
func (r *Registry) listen(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	defer r.purge()
	defer r.subCancel()
	ready()

	if err := util.WaitClosed(ctx, r.bound); err != nil {
		return
	}

	r.netMu.RLock()
	events := r.events
	r.netMu.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != network.EventValueFound {
				continue
			}
			r.HandleValueFound(event.Key, event.Value)
		}
	}
}

// purge drops all deferred blocks once the registry stops listening. The
// expiry goroutine of the LRU has no stop method and outlives the registry.
func (r *Registry) purge() {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := r.pending.Len()
	r.purging.Store(true)
	r.pending.Purge()
	r.purging.Store(false)
	r.metrics.DeferredBlocks(0)
	if dropped > 0 {
		r.log.Info().Int("dropped", dropped).Msg("deferred blocks dropped on shutdown")
	}
}

// HandleValueFound processes a single lookup response. If the key belongs to
// a deferred block and the value holds a verified quorum of proofs for all
// of its outstanding events, the proofs are stored and the block is no
// longer deferred. Any other response is discarded and the block, if known,
// stays deferred. It returns true if the block was resolved.
func (r *Registry) HandleValueFound(key []byte, value []byte) bool {
	blockHash, err := witness.BlockHashFromLookupKey(key)
	if err != nil {
		r.reject(metrics.ReasonMalformedKey).Err(err).Hex("key", key).Msg("discarding lookup response with malformed key")
		return false
	}
	lg := r.log.With().Hex("block_id", blockHash[:]).Logger()

	r.mu.Lock()
	e, ok := r.pending.Peek(blockHash)
	var outstanding []witness.Identifier
	if ok {
		outstanding = e.outstanding
	}
	r.mu.Unlock()
	if !ok {
		r.metrics.LookupResponseRejected(metrics.ReasonUnknownBlock)
		lg.Debug().Msg("discarding lookup response for block not deferred")
		return false
	}

	bundle, err := r.codec.DecodeProofs(value)
	if err != nil {
		r.reject(metrics.ReasonMalformedProofs).Err(err).Hex("block_id", blockHash[:]).Msg("discarding malformed proof bundle")
		return false
	}

	height := r.chain.BestHeight()
	authorities, err := r.authorities.AuthoritiesAt(height)
	if err != nil {
		lg.Error().Err(err).Uint64("height", height).Msg("could not resolve authorities, block stays deferred")
		r.metrics.LookupResponseRejected(metrics.ReasonNoAuthorities)
		return false
	}

	valid, err := r.verifier.Verify(bundle, outstanding, authorities)
	if err != nil {
		r.reject(metrics.ReasonMalformedProofs).Err(err).Hex("block_id", blockHash[:]).Msg("discarding proof bundle with malformed proofs")
		return false
	}
	if !valid {
		r.reject(metrics.ReasonQuorumFailed).Hex("block_id", blockHash[:]).Uint64("height", height).Msg("proof bundle does not witness all outstanding events")
		return false
	}

	// only the verified events are persisted
	err = r.store.Add(bundle.Filter(outstanding))
	if err != nil {
		lg.Error().Err(err).Msg("could not store verified proofs, block stays deferred")
		r.metrics.LookupResponseRejected(metrics.ReasonStoreFailed)
		return false
	}

	r.mu.Lock()
	current, ok := r.pending.Peek(blockHash)
	if ok && current == e {
		e.resolved.Store(true)
		r.pending.Remove(blockHash)
	}
	size := r.pending.Len()
	r.mu.Unlock()

	if !ok || current != e {
		// evicted while verifying; the proofs are stored regardless
		lg.Info().Msg("witness proofs stored for block evicted during verification")
		return true
	}

	r.metrics.DeferredBlockResolved(time.Since(e.deferredAt))
	r.metrics.DeferredBlocks(uint(size))
	lg.Info().
		Int("events", len(outstanding)).
		Dur("deferred_for", time.Since(e.deferredAt)).
		Msg("witness proofs for deferred block verified and stored")
	return true
}

func (r *Registry) reject(reason string) *zerolog.Event {
	r.metrics.LookupResponseRejected(reason)
	return r.log.Warn().Str("reason", reason)
}

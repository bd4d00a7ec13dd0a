package dht

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/libp2p/go-libp2p/core/routing"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/network/internal/eventstream"
)

// LookupConfig tunes the DHT-backed lookup network.
type LookupConfig struct {
	// Workers bounds the number of concurrent DHT queries.
	Workers int
	// GetTimeout bounds a single GetValue query.
	GetTimeout time.Duration
	// PutTimeout bounds a single PutValue attempt.
	PutTimeout time.Duration
	// PutRetries is the number of retries after a failed PutValue attempt.
	PutRetries uint64
	// PutBackoff is the initial exponential backoff between PutValue attempts.
	PutBackoff time.Duration
	// QueryRate limits the DHT queries per second issued by this node.
	// Zero or less disables the limit.
	QueryRate float64
	// QueryBurst is the number of queries allowed above QueryRate.
	QueryBurst int
}

func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		Workers:    16,
		GetTimeout: 10 * time.Second,
		PutTimeout: 10 * time.Second,
		PutRetries: 3,
		PutBackoff: 500 * time.Millisecond,
		QueryRate:  100,
		QueryBurst: 16,
	}
}

// LookupNetwork adapts a libp2p routing.ValueStore (usually a Kademlia DHT)
// to the fire-and-forget network.LookupNetwork interface. Queries run on a
// bounded worker pool and their outcomes are fanned out to subscribers.
type LookupNetwork struct {
	log         zerolog.Logger
	store       routing.ValueStore
	config      LookupConfig
	distributor *eventstream.Distributor
	limiter     *rate.Limiter

	mu      sync.RWMutex
	stopped bool
	pool    *workerpool.WorkerPool
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ network.LookupNetwork = (*LookupNetwork)(nil)

func NewLookupNetwork(log zerolog.Logger, store routing.ValueStore, config LookupConfig) *LookupNetwork {
	ctx, cancel := context.WithCancel(context.Background())
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	limit := rate.Inf
	if config.QueryRate > 0 {
		limit = rate.Limit(config.QueryRate)
	}
	burst := config.QueryBurst
	if burst < 1 {
		burst = 1
	}
	return &LookupNetwork{
		log:         log.With().Str("component", "dht_lookup").Logger(),
		store:       store,
		config:      config,
		distributor: eventstream.NewDistributor(log),
		limiter:     rate.NewLimiter(limit, burst),
		pool:        workerpool.New(workers),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// GetValue queries the DHT for key in the background.
func (n *LookupNetwork) GetValue(key []byte) {
	key = append([]byte(nil), key...)
	n.submit(func() {
		if !n.throttle(key) {
			return
		}
		ctx, cancel := context.WithTimeout(n.ctx, n.config.GetTimeout)
		defer cancel()

		value, err := n.store.GetValue(ctx, string(key))
		if err != nil {
			lg := n.log.Debug()
			if !errors.Is(err, routing.ErrNotFound) {
				lg = n.log.Warn()
			}
			lg.Err(err).Hex("key", key).Msg("dht lookup returned no value")
			n.distributor.Publish(network.LookupEvent{Type: network.EventValueNotFound, Key: key})
			return
		}
		n.distributor.Publish(network.LookupEvent{Type: network.EventValueFound, Key: key, Value: value})
	})
}

// PutValue stores value under key in the background, retrying with
// exponential backoff.
func (n *LookupNetwork) PutValue(key []byte, value []byte) {
	key = append([]byte(nil), key...)
	value = append([]byte(nil), value...)
	n.submit(func() {
		if !n.throttle(key) {
			return
		}
		backoff := retry.WithMaxRetries(n.config.PutRetries, retry.NewExponential(n.config.PutBackoff))
		attempts := 0
		err := retry.Do(n.ctx, backoff, func(ctx context.Context) error {
			attempts++
			putCtx, cancel := context.WithTimeout(ctx, n.config.PutTimeout)
			defer cancel()
			if err := n.store.PutValue(putCtx, string(key), value); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			n.log.Warn().Err(err).Hex("key", key).Int("attempts", attempts).Msg("failed to put value to dht")
			n.distributor.Publish(network.LookupEvent{Type: network.EventValuePutFailed, Key: key})
			return
		}
		n.distributor.Publish(network.LookupEvent{Type: network.EventValuePut, Key: key})
	})
}

func (n *LookupNetwork) Subscribe(ctx context.Context) <-chan network.LookupEvent {
	return n.distributor.Subscribe(ctx)
}

// Stop cancels in-flight queries and waits for the workers to exit. Requests
// made after Stop are dropped.
func (n *LookupNetwork) Stop() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	n.mu.Unlock()

	n.cancel()
	n.pool.StopWait()
}

func (n *LookupNetwork) submit(task func()) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.stopped {
		n.log.Debug().Msg("dropping dht request after stop")
		return
	}
	n.pool.Submit(task)
}

// throttle waits for the query rate limiter. It returns false once the
// network is stopped.
func (n *LookupNetwork) throttle(key []byte) bool {
	if err := n.limiter.Wait(n.ctx); err != nil {
		n.log.Debug().Err(err).Hex("key", key).Msg("dropping dht request")
		return false
	}
	return true
}

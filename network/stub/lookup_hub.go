package stub

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/network/internal/eventstream"
)

// LookupHub is an in-memory key-value network shared by any number of
// LookupNetwork instances. It stands in for a DHT in tests and simulations:
// values put by one instance can be found by every other instance.
type LookupHub struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewLookupHub() *LookupHub {
	return &LookupHub{
		values: make(map[string][]byte),
	}
}

// Value returns the value currently stored under key.
func (h *LookupHub) Value(key []byte) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	value, ok := h.values[string(key)]
	return value, ok
}

func (h *LookupHub) put(key []byte, value []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values[string(key)] = append([]byte(nil), value...)
}

// LookupNetwork is a node's handle to a LookupHub.
type LookupNetwork struct {
	hub         *LookupHub
	distributor *eventstream.Distributor

	mu       sync.Mutex
	requests [][]byte
	puts     [][]byte
}

var _ network.LookupNetwork = (*LookupNetwork)(nil)

// NewLookupNetwork attaches a new node to the hub.
func (h *LookupHub) NewLookupNetwork(log zerolog.Logger) *LookupNetwork {
	return &LookupNetwork{
		hub:         h,
		distributor: eventstream.NewDistributor(log.With().Str("component", "stub_lookup").Logger()),
	}
}

// GetValue emits EventValueFound if the hub holds key, or EventValueNotFound otherwise.
func (n *LookupNetwork) GetValue(key []byte) {
	n.mu.Lock()
	n.requests = append(n.requests, append([]byte(nil), key...))
	n.mu.Unlock()

	value, ok := n.hub.Value(key)
	if !ok {
		n.distributor.Publish(network.LookupEvent{Type: network.EventValueNotFound, Key: key})
		return
	}
	n.distributor.Publish(network.LookupEvent{Type: network.EventValueFound, Key: key, Value: value})
}

// PutValue stores value in the hub, replacing any previous value.
func (n *LookupNetwork) PutValue(key []byte, value []byte) {
	n.mu.Lock()
	n.puts = append(n.puts, append([]byte(nil), key...))
	n.mu.Unlock()

	n.hub.put(key, value)
	n.distributor.Publish(network.LookupEvent{Type: network.EventValuePut, Key: key})
}

func (n *LookupNetwork) Subscribe(ctx context.Context) <-chan network.LookupEvent {
	return n.distributor.Subscribe(ctx)
}

// Deliver injects an event as if it had been produced by the network.
func (n *LookupNetwork) Deliver(event network.LookupEvent) {
	n.distributor.Publish(event)
}

// Subscribers returns the number of active subscriptions.
func (n *LookupNetwork) Subscribers() int {
	return n.distributor.Subscribers()
}

// Requests returns the keys passed to GetValue, in call order.
func (n *LookupNetwork) Requests() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.requests...)
}

// Puts returns the keys passed to PutValue, in call order.
func (n *LookupNetwork) Puts() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.puts...)
}

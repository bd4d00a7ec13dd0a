package eventstream

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/validated-streams/witness-guard/engine/common/fifoqueue"
	"github.com/validated-streams/witness-guard/network"
)

// Distributor fans out lookup events to any number of subscribers. Every
// subscriber owns an unbounded FIFO queue, so Publish never blocks on a slow
// consumer and each subscriber observes events in publication order.
type Distributor struct {
	log zerolog.Logger

	mu            sync.RWMutex
	subscriptions map[*subscription]struct{}
}

type subscription struct {
	queue  *fifoqueue.FifoQueue[network.LookupEvent]
	notify chan struct{}
}

func NewDistributor(log zerolog.Logger) *Distributor {
	return &Distributor{
		log:           log,
		subscriptions: make(map[*subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned channel delivers all
// events published after the call and is closed once ctx is cancelled.
func (d *Distributor) Subscribe(ctx context.Context) <-chan network.LookupEvent {
	queue, err := fifoqueue.NewFifoQueue[network.LookupEvent]()
	if err != nil {
		// the default queue has no options that could fail
		panic(err)
	}
	sub := &subscription{
		queue:  queue,
		notify: make(chan struct{}, 1),
	}

	d.mu.Lock()
	d.subscriptions[sub] = struct{}{}
	d.mu.Unlock()

	out := make(chan network.LookupEvent)
	go func() {
		defer close(out)
		defer func() {
			d.mu.Lock()
			delete(d.subscriptions, sub)
			d.mu.Unlock()
		}()

		for {
			for {
				item, ok := sub.queue.Pop()
				if !ok {
					break
				}
				select {
				case out <- item:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-sub.notify:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Publish delivers event to all current subscribers.
func (d *Distributor) Publish(event network.LookupEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for sub := range d.subscriptions {
		sub.queue.Push(event)
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}

	d.log.Trace().
		Str("event", event.Type.String()).
		Int("subscribers", len(d.subscriptions)).
		Msg("lookup event published")
}

// Subscribers returns the number of active subscriptions.
func (d *Distributor) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscriptions)
}

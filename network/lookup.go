package network

import (
	"context"
	"fmt"
)

// LookupEventType distinguishes the notifications emitted by a LookupNetwork.
type LookupEventType int

const (
	// EventValueFound reports a value retrieved for a key that was requested with GetValue.
	EventValueFound LookupEventType = iota + 1
	// EventValueNotFound reports that a GetValue request completed without a value.
	EventValueNotFound
	// EventValuePut reports that a PutValue request was stored by the network.
	EventValuePut
	// EventValuePutFailed reports that a PutValue request could not be stored.
	EventValuePutFailed
)

func (t LookupEventType) String() string {
	switch t {
	case EventValueFound:
		return "value_found"
	case EventValueNotFound:
		return "value_not_found"
	case EventValuePut:
		return "value_put"
	case EventValuePutFailed:
		return "value_put_failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// LookupEvent is a notification from the lookup network. Value is only set
// for EventValueFound.
type LookupEvent struct {
	Type  LookupEventType
	Key   []byte
	Value []byte
}

// LookupNetwork is a distributed key-value discovery network used to request
// and publish data between nodes. Requests are fire-and-forget: outcomes are
// reported asynchronously on the event streams returned by Subscribe.
type LookupNetwork interface {
	// GetValue starts a lookup for key. A found value is reported as an
	// EventValueFound on every subscription.
	GetValue(key []byte)

	// PutValue publishes value under key.
	PutValue(key []byte, value []byte)

	// Subscribe returns a stream of all events emitted after the call, in the
	// order they were produced. The stream is closed once ctx is cancelled.
	Subscribe(ctx context.Context) <-chan LookupEvent
}

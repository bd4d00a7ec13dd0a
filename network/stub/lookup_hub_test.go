package stub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/utils/unittest"
)

func TestLookupHub_PutThenGet(t *testing.T) {
	hub := NewLookupHub()
	publisher := hub.NewLookupNetwork(unittest.Logger())
	requester := hub.NewLookupNetwork(unittest.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := requester.Subscribe(ctx)

	key := []byte("/witness/key")
	requester.GetValue(key)
	publisher.PutValue(key, []byte("value"))
	requester.GetValue(key)

	expect := func(expected network.LookupEvent) {
		select {
		case event := <-events:
			assert.Equal(t, expected, event)
		case <-time.After(time.Second):
			require.FailNow(t, "no event delivered")
		}
	}
	expect(network.LookupEvent{Type: network.EventValueNotFound, Key: key})
	expect(network.LookupEvent{Type: network.EventValueFound, Key: key, Value: []byte("value")})

	assert.Len(t, requester.Requests(), 2)
	assert.Len(t, publisher.Puts(), 1)
}

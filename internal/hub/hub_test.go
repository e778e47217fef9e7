package hub

import (
	"context"
	"testing"
	"time"

	"vv-api/internal/domain"
	"vv-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	h := New(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, sub *Subscriber) domain.BattleEvent {
	t.Helper()
	select {
	case event := <-sub.C:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.BattleEvent{}
	}
}

func TestHubDeliversToBattleSubscribers(t *testing.T) {
	h := startHub(t)

	sub1 := h.Subscribe("battle-1")
	sub2 := h.Subscribe("battle-1")
	other := h.Subscribe("battle-2")

	h.Publish(domain.BattleEvent{Type: "joined", BattleID: "battle-1"})

	assert.Equal(t, "joined", receive(t, sub1).Type)
	assert.Equal(t, "joined", receive(t, sub2).Type)

	select {
	case event := <-other.C:
		t.Fatalf("subscriber of another battle received %q", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := startHub(t)

	sub := h.Subscribe("battle-1")
	h.Unsubscribe(sub)

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}

	// Publishing after unsubscribe must not panic or block
	h.Publish(domain.BattleEvent{Type: "vote", BattleID: "battle-1"})
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	h := startHub(t)

	h.Subscribe("battle-1")

	// Overfill the subscriber buffer; the loop must keep running
	for i := 0; i < subscriberBuffer*2; i++ {
		h.Publish(domain.BattleEvent{Type: "vote", BattleID: "battle-1"})
	}

	// A fresh subscriber still receives new events
	fresh := h.Subscribe("battle-1")
	h.Publish(domain.BattleEvent{Type: "finalized", BattleID: "battle-1"})

	deadline := time.After(time.Second)
	for {
		select {
		case event := <-fresh.C:
			if event.Type == "finalized" {
				return
			}
		case <-deadline:
			t.Fatal("hub stopped delivering after slow subscriber")
		}
	}
}

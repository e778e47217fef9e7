// Package hub fans battle events out to WebSocket subscribers. The hub
// owns all subscription state inside a single message loop, so no locks
// are needed around the subscriber registry.
package hub

import (
	"context"

	"vv-api/internal/domain"
	"vv-api/pkg/logger"
)

const subscriberBuffer = 16

// Subscriber receives events for one battle until unsubscribed
type Subscriber struct {
	BattleID string
	C        chan domain.BattleEvent
}

// Hub routes battle events to the subscribers watching each battle
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	events     chan domain.BattleEvent
	subs       map[string]map[*Subscriber]struct{}
	log        *logger.Logger
}

// New creates a hub. Call Run before subscribing or publishing.
func New(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		events:     make(chan domain.BattleEvent, 64),
		subs:       make(map[string]map[*Subscriber]struct{}),
		log:        log.Named("hub"),
	}
}

// Run processes registrations and event fan-out until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.subs {
				for sub := range set {
					close(sub.C)
				}
			}
			h.subs = make(map[string]map[*Subscriber]struct{})
			return

		case sub := <-h.register:
			set, ok := h.subs[sub.BattleID]
			if !ok {
				set = make(map[*Subscriber]struct{})
				h.subs[sub.BattleID] = set
			}
			set[sub] = struct{}{}

		case sub := <-h.unregister:
			if set, ok := h.subs[sub.BattleID]; ok {
				if _, present := set[sub]; present {
					delete(set, sub)
					close(sub.C)
					if len(set) == 0 {
						delete(h.subs, sub.BattleID)
					}
				}
			}

		case event := <-h.events:
			for sub := range h.subs[event.BattleID] {
				select {
				case sub.C <- event:
				default:
					// Slow consumer, drop the event rather than stall the loop
					h.log.Warn("dropping event for slow subscriber")
				}
			}
		}
	}
}

// Subscribe registers a new subscriber for a battle's events
func (h *Hub) Subscribe(battleID string) *Subscriber {
	sub := &Subscriber{
		BattleID: battleID,
		C:        make(chan domain.BattleEvent, subscriberBuffer),
	}
	h.register <- sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish queues an event for fan-out. Never blocks the caller.
func (h *Hub) Publish(event domain.BattleEvent) {
	select {
	case h.events <- event:
	default:
		h.log.Warn("event queue full, dropping battle event")
	}
}

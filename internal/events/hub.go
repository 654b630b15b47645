package events

import (
	"context"
	"sync"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

// Hub delivers events to in-process subscribers. Slow subscribers drop
// events rather than block the emitting request
type Hub struct {
	subs map[chan *api.FlowEvent]struct{}
	mu   sync.Mutex
}

const subscriberBuffer = 16

// NewHub creates an empty subscriber hub
func NewHub() *Hub {
	return &Hub{
		subs: map[chan *api.FlowEvent]struct{}{},
	}
}

// Subscribe registers a new subscriber channel. The returned cancel
// function unregisters and closes the channel
func (h *Hub) Subscribe() (<-chan *api.FlowEvent, func()) {
	ch := make(chan *api.FlowEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Notify delivers the event to every subscriber without blocking
func (h *Hub) Notify(_ context.Context, ev *api.FlowEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

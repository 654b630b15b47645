// Package events defines the notification port for flow lifecycle events
//
// Handlers and services emit events through a Notifier without knowing who
// listens. Implementations fan events out to Redis pub/sub channels and to
// in-process subscribers such as the WebSocket stream
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

type (
	// Notifier receives flow lifecycle events
	Notifier interface {
		Notify(ctx context.Context, ev *api.FlowEvent) error
	}

	// Nop discards all events, used where no listeners exist
	Nop struct{}

	// Publisher forwards events to a Redis pub/sub channel as JSON
	Publisher struct {
		rdb     redis.UniversalClient
		channel string
	}

	// Broadcast fans an event out to several notifiers. The first error is
	// returned after all notifiers have been tried
	Broadcast []Notifier
)

// Notify discards the event
func (Nop) Notify(context.Context, *api.FlowEvent) error {
	return nil
}

// NewPublisher creates a Redis pub/sub notifier on the given channel
func NewPublisher(rdb redis.UniversalClient, channel string) *Publisher {
	return &Publisher{
		rdb:     rdb,
		channel: channel,
	}
}

// Notify publishes the event to the channel
func (p *Publisher) Notify(ctx context.Context, ev *api.FlowEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, data).Err()
}

// Notify delivers the event to every notifier in the broadcast
func (b Broadcast) Notify(ctx context.Context, ev *api.FlowEvent) error {
	var res error
	for _, n := range b {
		if err := n.Notify(ctx, ev); err != nil && res == nil {
			res = err
		}
	}
	return res
}

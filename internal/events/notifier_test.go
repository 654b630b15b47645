package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuhuapiaoyuan/activepieces/internal/events"
	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

func testEvent() *api.FlowEvent {
	return &api.FlowEvent{
		Type:      api.EventFlowCreated,
		FlowID:    "flow-1",
		ProjectID: "proj-1",
		UserID:    "user-1",
		Timestamp: time.Now(),
	}
}

func TestNopDiscards(t *testing.T) {
	assert.NoError(t, events.Nop{}.Notify(context.Background(), testEvent()))
}

func TestPublisherSendsJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	sub := rdb.Subscribe(context.Background(), "events")
	t.Cleanup(func() {
		_ = sub.Close()
	})
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	pub := events.NewPublisher(rdb, "events")
	require.NoError(t, pub.Notify(context.Background(), testEvent()))

	msg, err := sub.ReceiveTimeout(context.Background(), time.Second)
	require.NoError(t, err)
	payload, ok := msg.(*redis.Message)
	require.True(t, ok)

	var got api.FlowEvent
	require.NoError(t, json.Unmarshal([]byte(payload.Payload), &got))
	assert.Equal(t, api.EventFlowCreated, got.Type)
	assert.Equal(t, api.FlowID("flow-1"), got.FlowID)
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := events.NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	require.NoError(t, hub.Notify(context.Background(), testEvent()))

	select {
	case ev := <-ch:
		assert.Equal(t, api.FlowID("flow-1"), ev.FlowID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := events.NewHub()
	ch, cancel := hub.Subscribe()

	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok)

	assert.NoError(t, hub.Notify(context.Background(), testEvent()))
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := events.NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		require.NoError(t, hub.Notify(context.Background(), testEvent()))
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Less(t, received, 100)
	assert.Greater(t, received, 0)
}

func TestBroadcastFansOutAndReportsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	rec := func(name string, err error) events.Notifier {
		return notifierFunc(func(context.Context, *api.FlowEvent) error {
			calls = append(calls, name)
			return err
		})
	}

	b := events.Broadcast{
		rec("first", nil),
		rec("second", boom),
		rec("third", nil),
	}
	err := b.Notify(context.Background(), testEvent())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

type notifierFunc func(context.Context, *api.FlowEvent) error

func (f notifierFunc) Notify(ctx context.Context, ev *api.FlowEvent) error {
	return f(ctx, ev)
}

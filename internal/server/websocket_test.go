package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

func TestWebSocketStreamsFlowEvents(t *testing.T) {
	env := newTestServer(t)

	ts := httptest.NewServer(env.Router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	// give the server a moment to register the subscriber
	time.Sleep(50 * time.Millisecond)

	err = env.Hub.Notify(context.Background(), &api.FlowEvent{
		Type:      api.EventFlowCreated,
		FlowID:    "flow-1",
		ProjectID: "proj-1",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var got api.FlowEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, api.EventFlowCreated, got.Type)
	assert.Equal(t, api.FlowID("flow-1"), got.FlowID)
}

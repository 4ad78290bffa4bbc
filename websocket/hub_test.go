package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit/events"
)

func TestHubBroadcastsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), `"connected"`)
	assert.Equal(t, 1, hub.Clients())

	err = hub.Send(context.Background(), events.Event{
		Type:    events.PostDeleted,
		Payload: events.PostDeletedPayload{PostID: "p1"},
	})
	require.NoError(t, err)

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"post_deleted"`)
	assert.Contains(t, string(msg), `"postId":"p1"`)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	_, pong, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(pong), `"pong"`)
}

func TestSendHonoursContext(t *testing.T) {
	hub := NewHub() // not running: nobody drains broadcast
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := hub.Send(ctx, events.Event{Type: events.PostCreated})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHubRefusesClientsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	live, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer live.Close()
	_ = live.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = live.ReadMessage() // welcome
	require.NoError(t, err)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// the connected client is closed and its read loop exits without blocking
	_, _, err = live.ReadMessage()
	assert.Error(t, err)

	handled := make(chan struct{})
	go func() {
		defer close(handled)
		late, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return
		}
		defer late.Close()
		_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = late.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	}()
	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatal("late client was left hanging")
	}

	assert.NoError(t, hub.Send(context.Background(), events.Event{Type: events.PostCreated}))
}

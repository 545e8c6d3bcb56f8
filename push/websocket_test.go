package push

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
	"go.uber.org/zap"

	"pos-terminal/models"
)

func TestWebSocketSourceDeliversEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		msgs := []string{
			`{"type":"ORDER_STATUS_CHANGED","order":{"id":"f-1","status":"ready"}}`,
			`this is not json`,
			`{"type":"ORDER_NEW","order":{"id":"f-2"}}`,
		}
		for _, m := range msgs {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(m)))
		}
		// Keep the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	source := NewWebSocketSource(wsURL, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan models.PushEvent, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = source.Run(ctx, func(_ context.Context, ev models.PushEvent) {
			received <- ev
		})
	}()

	var events []models.PushEvent
	for len(events) < 2 {
		select {
		case ev := <-received:
			events = append(events, ev)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for push events")
		}
	}

	assert.Equal(t, models.EventOrderStatusChanged, events[0].Type)
	require.NotNil(t, events[0].Order)
	assert.Equal(t, "f-1", events[0].Order.ID)
	assert.Equal(t, models.Status("ready"), events[0].Order.Status)

	// The malformed frame was dropped, not delivered.
	assert.Equal(t, models.EventOrderNew, events[1].Type)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop on context cancellation")
	}
}

func TestWebSocketSourceStopsWhenDialFails(t *testing.T) {
	source := NewWebSocketSource("ws://127.0.0.1:1/ws", zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := source.Run(ctx, func(context.Context, models.PushEvent) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

package push

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pos-terminal/models"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// WebSocketSource consumes push events from the backend's WebSocket endpoint,
// reconnecting with capped backoff when the connection drops.
type WebSocketSource struct {
	url    string
	dialer *websocket.Dialer
	log    *zap.SugaredLogger
}

// NewWebSocketSource builds a source for a ws:// or wss:// URL.
func NewWebSocketSource(url string, log *zap.SugaredLogger) *WebSocketSource {
	return &WebSocketSource{url: url, dialer: websocket.DefaultDialer, log: log}
}

// Run dials, reads events and hands them to handle until ctx is cancelled.
func (s *WebSocketSource) Run(ctx context.Context, handle func(context.Context, models.PushEvent)) error {
	delay := reconnectMin
	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warnf("websocket dial %s failed, retrying in %s: %v", s.url, delay, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > reconnectMax {
				delay = reconnectMax
			}
			continue
		}

		s.log.Infof("websocket connected to %s", s.url)
		delay = reconnectMin
		s.readLoop(ctx, conn, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *WebSocketSource) readLoop(ctx context.Context, conn *websocket.Conn, handle func(context.Context, models.PushEvent)) {
	// Unblocks the pending read when ctx ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		if err := conn.Close(); err != nil && ctx.Err() == nil {
			s.log.Debugf("websocket close: %v", err)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warnf("websocket read failed: %v", err)
			}
			return
		}
		var ev models.PushEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.log.Warnf("dropping malformed push message: %v", err)
			continue
		}
		handle(ctx, ev)
	}
}

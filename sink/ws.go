// Package sink adapts live connections into EventSinks the runtime can
// push to without knowing the transport.
package sink

import (
	"context"
	"log/slog"

	"snappy/domain/event"
)

// WebSocket buffers events for one connected client. The websocket
// handler owns the other end of the channel and writes the envelopes out.
type WebSocket struct {
	Events chan event.Event
	log    *slog.Logger
}

func NewWebSocket(log *slog.Logger, bufferSize int) *WebSocket {
	return &WebSocket{
		Events: make(chan event.Event, bufferSize),
		log:    log,
	}
}

// Consume hands the event to the connection's write pump. A full buffer
// drops the event: live pushes are best-effort and a slow client must not
// stall the caller.
func (s *WebSocket) Consume(ctx context.Context, e event.Event) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("event dropped on full connection buffer", "event", string(e.Name))
		return nil
	}
}

package sink_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"snappy/domain/event"
	"snappy/sink"

	"github.com/stretchr/testify/require"
)

func TestWebSocket_Consume(t *testing.T) {
	req := require.New(t)
	// Silencing logs for clean test output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("buffered events reach the write pump in order", func(t *testing.T) {
		s := sink.NewWebSocket(logger, 2)

		first := event.New(event.TypingStart, event.Typing{From: "alice"})
		second := event.New(event.TypingStop, event.Typing{From: "alice"})
		req.NoError(s.Consume(ctx, first))
		req.NoError(s.Consume(ctx, second))

		req.Equal(first, <-s.Events)
		req.Equal(second, <-s.Events)
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		s := sink.NewWebSocket(logger, 1)

		req.NoError(s.Consume(ctx, event.New(event.UserOnline, event.Presence{UserID: "alice"})))
		// The buffer is full; this must return immediately without error
		req.NoError(s.Consume(ctx, event.New(event.UserOnline, event.Presence{UserID: "bob"})))

		req.Len(s.Events, 1)
	})
}

package runtime

import (
	"context"
	"log/slog"

	"snappy/contract"
	"snappy/domain"
	"snappy/domain/event"
)

// Relay delivers a just-persisted message to the recipient's live
// connection. Live delivery is best-effort; persistence is the durability
// guarantee, so an offline recipient is a silent no-op.
type Relay struct {
	registry contract.IRegistry
	typing   contract.ITypingCoordinator
	log      *slog.Logger
}

func NewRelay(log *slog.Logger, registry contract.IRegistry,
	typing contract.ITypingCoordinator) *Relay {
	return &Relay{registry: registry, typing: typing, log: log}
}

// Deliver pushes the message to the recipient if online. The pair's
// typing session is cleared first, unconditionally: the recipient must
// never see a message arrive under a still-showing typing indicator, and
// the clear is silent because the message itself supersedes the stop
// event.
func (r *Relay) Deliver(ctx context.Context, msg domain.Message) {
	r.typing.Clear(msg.Sender, msg.Recipient)

	sink, ok := r.registry.Lookup(msg.Recipient)
	if !ok {
		return
	}

	var e event.Event
	if msg.IsAnonymous {
		e = event.New(event.MessageReceived, event.AnonymousMessage{
			ID:          msg.ID.String(),
			Msg:         msg.Text,
			From:        msg.Sender,
			To:          msg.Recipient,
			IsAnonymous: true,
		})
	} else {
		// Reduced payload: the recipient identity is implicit in the
		// connection the event lands on.
		e = event.New(event.MessageReceived, event.RegularMessage{
			Msg:  msg.Text,
			From: msg.Sender,
		})
	}

	if err := sink.Consume(ctx, e); err != nil {
		r.log.Warn("live message delivery failed",
			"message_id", msg.ID.String(),
			"user_id", msg.Recipient,
			"error", err)
	}
}

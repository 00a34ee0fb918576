//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"snappy/domain"
	"snappy/domain/event"
)

// EventSink is a live client connection seen from the inside: a one-way,
// best-effort push target. Consume must never block longer than the
// caller's context allows.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IRegistry is the process-wide presence table. At most one sink is bound
// per identity; a second Bind for the same identity replaces the previous
// sink (last-connect-wins).
type IRegistry interface {
	Bind(identity string, sink EventSink)
	Unbind(identity string)
	Lookup(identity string) (EventSink, bool)
	Broadcast(ctx context.Context, except string, e event.Event)
	Online() []string
}

// ITypingCoordinator owns the per ordered-pair typing sessions.
type ITypingCoordinator interface {
	Start(ctx context.Context, sender, recipient string) error
	Stop(ctx context.Context, sender, recipient string) error
	// Clear cancels the pair's session without emitting a typing-stop
	// event. Called by the relay when a message supersedes the indicator.
	Clear(sender, recipient string)
	// Sweep removes every session whose sender or recipient is the given
	// identity. Called when that identity disconnects.
	Sweep(identity string)
}

// IRelay delivers a just-persisted message to the recipient's live
// connection. Delivery is best-effort: an offline recipient is a silent
// no-op, persistence is the durability guarantee.
type IRelay interface {
	Deliver(ctx context.Context, msg domain.Message)
}

// Package runtime owns the live, in-memory state of the chat service:
// which identity is connected where, and which typing indicators are
// pending. Everything here is shared mutable state guarded by a single
// owner per table.
package runtime

import (
	"context"
	"log/slog"
	"sync"

	"snappy/contract"
	"snappy/domain/event"
)

// Registry is the process-wide presence table mapping an identity to its
// live connection sink. It is the source of truth for online/offline.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
	log      *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]contract.EventSink),
		log:      log,
	}
}

// Bind registers the identity's live sink. A prior sink for the same
// identity is replaced without being closed: last-connect-wins.
func (r *Registry) Bind(identity string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[identity]; exists {
		r.log.Debug("replacing existing connection", "user_id", identity)
	}
	r.sessions[identity] = sink
}

// Unbind removes the identity's binding if present. Unbinding an unbound
// identity is not an error.
func (r *Registry) Unbind(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, identity)
}

// Lookup resolves an identity to its live sink. A miss is the expected
// "recipient offline" case, never an error.
func (r *Registry) Lookup(identity string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[identity]
	return sink, ok
}

// Broadcast pushes an event to every connected identity except one.
// Delivery is fire-and-forget; a full or failing sink only logs.
func (r *Registry) Broadcast(ctx context.Context, except string, e event.Event) {
	r.mu.RLock()
	targets := make(map[string]contract.EventSink, len(r.sessions))
	for identity, sink := range r.sessions {
		if identity != except {
			targets[identity] = sink
		}
	}
	r.mu.RUnlock()

	for identity, sink := range targets {
		if err := sink.Consume(ctx, e); err != nil {
			r.log.Warn("broadcast delivery failed",
				"event", string(e.Name),
				"user_id", identity,
				"error", err)
		}
	}
}

// Online returns the currently bound identities.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identities := make([]string, 0, len(r.sessions))
	for identity := range r.sessions {
		identities = append(identities, identity)
	}
	return identities
}

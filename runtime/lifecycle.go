package runtime

import (
	"context"
	"log/slog"

	"snappy/contract"
	"snappy/domain/event"
	"snappy/errors"
	"snappy/repositories"
)

// Lifecycle binds and unbinds identities to connections. The transport
// layer funnels its declare-identity and disconnect callbacks through
// here so that presence persistence, registry updates, broadcasts, and
// typing sweeps always happen together and in the same order.
type Lifecycle struct {
	log      *slog.Logger
	registry contract.IRegistry
	typing   contract.ITypingCoordinator
	users    repositories.IUserRepository
}

func NewLifecycle(log *slog.Logger, registry contract.IRegistry,
	typing contract.ITypingCoordinator, users repositories.IUserRepository) *Lifecycle {
	return &Lifecycle{log: log, registry: registry, typing: typing, users: users}
}

// Connect handles a declare-identity signal from a freshly established
// connection. The persisted online flag is written before the registry is
// touched: a failed persistence call leaves the in-memory state unchanged.
func (l *Lifecycle) Connect(ctx context.Context, identity string, sink contract.EventSink) error {
	if identity == "" {
		return errors.ErrMissingIdentity
	}
	if err := l.users.SetOnline(identity, true); err != nil {
		return err
	}
	l.registry.Bind(identity, sink)
	l.registry.Broadcast(ctx, identity, event.New(event.UserOnline, event.Presence{UserID: identity}))
	l.log.Debug("user connected", "user_id", identity)
	return nil
}

// Disconnect handles a transport-level close or an explicit logout.
//
// When sink is non-nil the unbind only happens if that sink is still the
// identity's current one: with last-connect-wins a stale connection's
// close callback must not tear down the replacement binding. A nil sink
// (logout) unbinds unconditionally.
//
// Unlike Connect, a failing persistence call does not abort: the
// connection is factually gone and a dead registry binding would corrupt
// presence for everyone else.
func (l *Lifecycle) Disconnect(ctx context.Context, identity string, sink contract.EventSink) {
	if identity == "" {
		return
	}
	if sink != nil {
		current, ok := l.registry.Lookup(identity)
		if !ok || current != sink {
			l.log.Debug("ignoring disconnect of superseded connection", "user_id", identity)
			return
		}
	}

	l.registry.Unbind(identity)
	l.typing.Sweep(identity)

	if err := l.users.SetOnline(identity, false); err != nil {
		l.log.Error("failed to persist offline status", "user_id", identity, "error", err)
	}
	l.registry.Broadcast(ctx, identity, event.New(event.UserOffline, event.Presence{UserID: identity}))
	l.log.Debug("user disconnected", "user_id", identity)
}

package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"snappy/contract"
	"snappy/domain/event"
	"snappy/errors"
)

// pair is the ordered (sender, recipient) key of a typing session.
// (a, b) and (b, a) are distinct sessions.
type pair struct {
	sender    string
	recipient string
}

type throttleKey struct {
	identity string
	kind     event.Name
}

// session wraps the expiry timer. The struct pointer doubles as the
// concurrency token: an expiry callback only acts if the table still maps
// its pair to this exact session, so a canceled-then-fired timer is a
// provable no-op.
type session struct {
	timer *time.Timer
}

// Coordinator owns the typing-indicator state machine: at most one live
// session per ordered pair, auto-expiring, and throttled per identity and
// event kind.
type Coordinator struct {
	mu       sync.Mutex
	sessions map[pair]*session
	accepted map[throttleKey]time.Time

	registry contract.IRegistry
	log      *slog.Logger
	ttl      time.Duration
	throttle time.Duration
}

func NewCoordinator(log *slog.Logger, registry contract.IRegistry,
	ttl, throttle time.Duration) *Coordinator {
	return &Coordinator{
		sessions: make(map[pair]*session),
		accepted: make(map[throttleKey]time.Time),
		registry: registry,
		log:      log,
		ttl:      ttl,
		throttle: throttle,
	}
}

// Start creates the pair's session and notifies the recipient, or, if a
// session already exists, only re-arms its expiry timer. The typing-start
// event is never re-pushed on refresh to avoid event storms.
func (c *Coordinator) Start(ctx context.Context, sender, recipient string) error {
	if sender == "" {
		return errors.ErrMissingIdentity
	}
	if recipient == "" {
		return errors.ErrMissingRecipient
	}

	c.mu.Lock()
	if !c.allow(sender, event.TypingStart) {
		c.mu.Unlock()
		return errors.ErrRateLimited
	}
	key := pair{sender: sender, recipient: recipient}
	existing, refresh := c.sessions[key]
	if refresh {
		existing.timer.Stop()
	}
	s := &session{}
	s.timer = time.AfterFunc(c.ttl, func() {
		c.expire(key, s)
	})
	c.sessions[key] = s
	c.mu.Unlock()

	if !refresh {
		c.push(ctx, recipient, event.New(event.TypingStart, event.Typing{From: sender}))
	}
	return nil
}

// Stop cancels the pair's session and notifies the recipient. Calling it
// without a live session is a silent no-op, not an error.
func (c *Coordinator) Stop(ctx context.Context, sender, recipient string) error {
	if sender == "" {
		return errors.ErrMissingIdentity
	}
	if recipient == "" {
		return errors.ErrMissingRecipient
	}

	c.mu.Lock()
	if !c.allow(sender, event.TypingStop) {
		c.mu.Unlock()
		return errors.ErrRateLimited
	}
	key := pair{sender: sender, recipient: recipient}
	s, ok := c.sessions[key]
	if ok {
		s.timer.Stop()
		delete(c.sessions, key)
	}
	c.mu.Unlock()

	if ok {
		c.push(ctx, recipient, event.New(event.TypingStop, event.Typing{From: sender}))
	}
	return nil
}

// Clear silently cancels the pair's session. Used by the relay: the
// arriving message itself supersedes the indicator, so no typing-stop
// event follows.
func (c *Coordinator) Clear(sender, recipient string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := pair{sender: sender, recipient: recipient}
	if s, ok := c.sessions[key]; ok {
		s.timer.Stop()
		delete(c.sessions, key)
	}
}

// Sweep silently cancels every session the identity participates in,
// as sender or recipient. A leaked timer could fire a stale typing event
// at a handle the identity no longer owns.
func (c *Coordinator) Sweep(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, s := range c.sessions {
		if key.sender == identity || key.recipient == identity {
			s.timer.Stop()
			delete(c.sessions, key)
		}
	}
}

// Live reports whether the ordered pair currently has a session.
func (c *Coordinator) Live(sender, recipient string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[pair{sender: sender, recipient: recipient}]
	return ok
}

// expire runs on the timer goroutine. It races with Stop, Clear, Sweep
// and a refreshing Start; the session token decides the winner.
func (c *Coordinator) expire(key pair, s *session) {
	c.mu.Lock()
	current, ok := c.sessions[key]
	if !ok || current != s {
		c.mu.Unlock()
		return
	}
	delete(c.sessions, key)
	c.mu.Unlock()

	c.push(context.Background(), key.recipient,
		event.New(event.TypingStop, event.Typing{From: key.sender}))
}

// allow is the per (identity, kind) throttle: one accepted call per
// window, callers inside the window are rejected, not queued. Must be
// called with c.mu held.
func (c *Coordinator) allow(identity string, kind event.Name) bool {
	key := throttleKey{identity: identity, kind: kind}
	now := time.Now()
	if last, ok := c.accepted[key]; ok && now.Sub(last) < c.throttle {
		return false
	}
	c.accepted[key] = now
	return true
}

func (c *Coordinator) push(ctx context.Context, recipient string, e event.Event) {
	sink, ok := c.registry.Lookup(recipient)
	if !ok {
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		c.log.Warn("typing event delivery failed",
			"event", string(e.Name),
			"user_id", recipient,
			"error", err)
	}
}

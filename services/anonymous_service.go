package services

import (
	"context"
	"log/slog"
	"time"

	"snappy/contract"
	"snappy/domain"
	"snappy/domain/event"
	"snappy/errors"
	"snappy/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IAnonymousService interface {
	Send(ctx context.Context, from, to, text string) (domain.Message, error)
	RequestReveal(messageID uuid.UUID) error
	ApproveReveal(messageID uuid.UUID) (domain.PublicIdentity, error)
	StopReceiving(ctx context.Context, messageID uuid.UUID) error
	SenderView(from, to string) ([]SenderMessage, error)
	RecipientInbox(recipient string) ([]InboxMessage, error)
	RevealedSenderInfo(messageID uuid.UUID) (domain.PublicIdentity, error)
}

// SenderMessage is one entry of the sender's own anonymous-conversation
// view, annotated with the current lifecycle flags.
type SenderMessage struct {
	ID                      string `json:"id"`
	FromSelf                bool   `json:"fromSelf"`
	Message                 string `json:"message"`
	IdentityRevealRequested bool   `json:"identityRevealRequested"`
	IdentityRevealed        bool   `json:"identityRevealed"`
	ReceivingStopped        bool   `json:"receivingStopped"`
}

// InboxMessage is one entry of the recipient's anonymous inbox. Sender
// identity is attached only when that specific message has been revealed.
type InboxMessage struct {
	ID                      string                 `json:"id"`
	Message                 string                 `json:"message"`
	Timestamp               time.Time              `json:"timestamp"`
	IdentityRevealRequested bool                   `json:"identityRevealRequested"`
	IdentityRevealed        bool                   `json:"identityRevealed"`
	Sender                  *domain.PublicIdentity `json:"sender,omitempty"`
}

// AnonymousService is the lifecycle engine for the anonymous channel:
// it gates sends, scopes identity reveals to single messages, and applies
// the stop-receiving kill-switch to whole directions. All decisions are
// made server-side against the persisted flags, never trusted from the
// client.
type AnonymousService struct {
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	relay    contract.IRelay
	registry contract.IRegistry
	log      *slog.Logger
}

func NewAnonymousService(log *slog.Logger, messages repositories.IMessageRepository,
	users repositories.IUserRepository, relay contract.IRelay,
	registry contract.IRegistry) *AnonymousService {
	return &AnonymousService{
		messages: messages,
		users:    users,
		relay:    relay,
		registry: registry,
		log:      log,
	}
}

// Send persists and relays an anonymous message unless the recipient has
// stopped receiving from this sender. One flagged message in the
// direction blocks every future send.
func (s *AnonymousService) Send(ctx context.Context, from, to, text string) (domain.Message, error) {
	if from == "" {
		return domain.Message{}, errors.ErrMissingIdentity
	}
	if to == "" {
		return domain.Message{}, errors.ErrMissingRecipient
	}
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	blocked, err := s.messages.HasReceivingStopped(from, to)
	if err != nil {
		return domain.Message{}, err
	}
	if blocked {
		return domain.Message{}, errors.ErrMessagesBlocked
	}

	msg := domain.Message{
		ID:          uuid.New(),
		Sender:      from,
		Recipient:   to,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
		IsAnonymous: true,
	}
	if err := s.messages.Create(msg); err != nil {
		return domain.Message{}, err
	}
	s.relay.Deliver(ctx, msg)
	return msg, nil
}

// RequestReveal marks a single message as having a pending identity
// request. No live push: the sender discovers it on the next fetch.
func (s *AnonymousService) RequestReveal(messageID uuid.UUID) error {
	_, err := s.messages.UpdateFlags(messageID, func(msg *domain.Message) {
		msg.IdentityRevealRequested = true
	})
	return err
}

// ApproveReveal reveals the sender of one exact message and returns the
// sender's public identity. Sibling messages in the same direction stay
// unrevealed unless separately approved.
func (s *AnonymousService) ApproveReveal(messageID uuid.UUID) (domain.PublicIdentity, error) {
	updated, err := s.messages.UpdateFlags(messageID, func(msg *domain.Message) {
		msg.IdentityRevealed = true
	})
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	sender, err := s.users.GetByID(updated.Sender)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	return sender.PublicIdentity(), nil
}

// StopReceiving flags every anonymous message the originating sender has
// sent to this recipient, past and future: the Blocked state is derived
// from the flags, so the one batch update also rejects later sends. The
// sender is told immediately if online.
func (s *AnonymousService) StopReceiving(ctx context.Context, messageID uuid.UUID) error {
	msg, err := s.messages.GetByID(messageID)
	if err != nil {
		return err
	}

	count, err := s.messages.StopReceiving(msg.Sender, msg.Recipient)
	if err != nil {
		return err
	}
	s.log.Debug("anonymous direction blocked",
		"sender", msg.Sender, "recipient", msg.Recipient, "updated", count)

	if sink, ok := s.registry.Lookup(msg.Sender); ok {
		e := event.New(event.MessagesBlocked, event.Blocked{
			ReceiverID: msg.Recipient,
			Message:    errors.ErrMessagesBlocked.Error(),
		})
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Warn("blocked notification delivery failed",
				"user_id", msg.Sender, "error", err)
		}
	}
	return nil
}

// SenderView returns the anonymous messages the sender has sent to one
// recipient, with their current flags.
func (s *AnonymousService) SenderView(from, to string) ([]SenderMessage, error) {
	if from == "" || to == "" {
		return nil, errors.ErrMissingIdentity
	}
	messages, err := s.messages.AnonymousSentBy(from, to)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(msg domain.Message, _ int) SenderMessage {
		return SenderMessage{
			ID:                      msg.ID.String(),
			FromSelf:                true,
			Message:                 msg.Text,
			IdentityRevealRequested: msg.IdentityRevealRequested,
			IdentityRevealed:        msg.IdentityRevealed,
			ReceivingStopped:        msg.ReceivingStopped,
		}
	}), nil
}

// RecipientInbox returns every anonymous message addressed to the
// recipient across all senders. Sender identity is only attached to
// messages whose own IdentityRevealed flag is set.
func (s *AnonymousService) RecipientInbox(recipient string) ([]InboxMessage, error) {
	if recipient == "" {
		return nil, errors.ErrMissingIdentity
	}
	messages, err := s.messages.AnonymousInbox(recipient)
	if err != nil {
		return nil, err
	}

	inbox := make([]InboxMessage, 0, len(messages))
	for _, msg := range messages {
		entry := InboxMessage{
			ID:                      msg.ID.String(),
			Message:                 msg.Text,
			Timestamp:               msg.CreatedAt,
			IdentityRevealRequested: msg.IdentityRevealRequested,
			IdentityRevealed:        msg.IdentityRevealed,
		}
		if msg.IdentityRevealed {
			sender, err := s.users.GetByID(msg.Sender)
			if err != nil {
				return nil, err
			}
			identity := sender.PublicIdentity()
			entry.Sender = &identity
		}
		inbox = append(inbox, entry)
	}
	return inbox, nil
}

// RevealedSenderInfo returns the public identity behind a revealed
// message, and refuses while the message is still unrevealed.
func (s *AnonymousService) RevealedSenderInfo(messageID uuid.UUID) (domain.PublicIdentity, error) {
	msg, err := s.messages.GetByID(messageID)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	if !msg.IdentityRevealed {
		return domain.PublicIdentity{}, errors.ErrIdentityNotRevealed
	}
	sender, err := s.users.GetByID(msg.Sender)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	return sender.PublicIdentity(), nil
}

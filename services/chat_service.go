package services

import (
	"context"
	"time"

	"snappy/contract"
	"snappy/domain"
	"snappy/errors"
	"snappy/moderation"
	"snappy/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	Send(ctx context.Context, from, to, text string) (domain.Message, error)
	History(from, to string) ([]ProjectedMessage, error)
}

// ProjectedMessage is the regular-conversation view: the client only
// needs the text and which side of the conversation it came from.
type ProjectedMessage struct {
	FromSelf bool   `json:"fromSelf"`
	Message  string `json:"message"`
}

type ChatService struct {
	messages  repositories.IMessageRepository
	relay     contract.IRelay
	moderator *moderation.Moderator
}

func NewChatService(messages repositories.IMessageRepository, relay contract.IRelay,
	moderator *moderation.Moderator) *ChatService {
	return &ChatService{messages: messages, relay: relay, moderator: moderator}
}

// Send persists a regular message and relays it to the recipient's live
// connection. The message is acknowledged once persisted; live delivery
// is best-effort.
func (s *ChatService) Send(ctx context.Context, from, to, text string) (domain.Message, error) {
	if from == "" {
		return domain.Message{}, errors.ErrMissingIdentity
	}
	if to == "" {
		return domain.Message{}, errors.ErrMissingRecipient
	}
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	msg := domain.Message{
		ID:        uuid.New(),
		Sender:    from,
		Recipient: to,
		Text:      s.moderator.Censor(text),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(msg); err != nil {
		return domain.Message{}, err
	}
	s.relay.Deliver(ctx, msg)
	return msg, nil
}

// History returns the regular conversation between two users, oldest
// first. Anonymous messages never appear here.
func (s *ChatService) History(from, to string) ([]ProjectedMessage, error) {
	if from == "" || to == "" {
		return nil, errors.ErrMissingIdentity
	}
	messages, err := s.messages.Conversation(from, to, false)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(msg domain.Message, _ int) ProjectedMessage {
		return ProjectedMessage{
			FromSelf: msg.Sender == from,
			Message:  msg.Text,
		}
	}), nil
}

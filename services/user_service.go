package services

import (
	"snappy/domain"
	"snappy/errors"
	"snappy/repositories"

	"github.com/samber/lo"
)

type IUserService interface {
	AllUsers(exceptID string) ([]domain.PublicIdentity, error)
	Contacts(userID string) ([]domain.PublicIdentity, error)
	Status(userID string) (bool, error)
	SetAvatar(userID, image string) (domain.PublicIdentity, error)
	TopFriends(userID string, limit int) ([]FriendRank, error)
}

// FriendRank is the friend-ranking read-only aggregation: a counterpart's
// public identity plus how many messages the two users have exchanged.
type FriendRank struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	AvatarImage  string `json:"avatarImage"`
	MessageCount int    `json:"messageCount"`
}

type UserService struct {
	users    repositories.IUserRepository
	messages repositories.IMessageRepository
}

func NewUserService(users repositories.IUserRepository,
	messages repositories.IMessageRepository) *UserService {
	return &UserService{users: users, messages: messages}
}

func (s *UserService) AllUsers(exceptID string) ([]domain.PublicIdentity, error) {
	if exceptID == "" {
		return nil, errors.ErrMissingIdentity
	}
	users, err := s.users.AllUsers(exceptID)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u domain.User, _ int) domain.PublicIdentity {
		return u.PublicIdentity()
	}), nil
}

// Contacts returns the users the caller has exchanged regular messages
// with.
func (s *UserService) Contacts(userID string) ([]domain.PublicIdentity, error) {
	if userID == "" {
		return nil, errors.ErrMissingIdentity
	}
	ids, err := s.messages.ContactIDs(userID)
	if err != nil {
		return nil, err
	}
	contacts := make([]domain.PublicIdentity, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetByID(id)
		if err != nil {
			// A message can outlive its account; skip the hole.
			continue
		}
		contacts = append(contacts, user.PublicIdentity())
	}
	return contacts, nil
}

func (s *UserService) Status(userID string) (bool, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user.IsOnline, nil
}

func (s *UserService) SetAvatar(userID, image string) (domain.PublicIdentity, error) {
	if userID == "" {
		return domain.PublicIdentity{}, errors.ErrMissingIdentity
	}
	if err := s.users.SetAvatar(userID, image); err != nil {
		return domain.PublicIdentity{}, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	return user.PublicIdentity(), nil
}

// TopFriends ranks counterparts by message volume and joins in their
// public identity.
func (s *UserService) TopFriends(userID string, limit int) ([]FriendRank, error) {
	if userID == "" {
		return nil, errors.ErrMissingIdentity
	}
	counts, err := s.messages.TopFriends(userID, limit)
	if err != nil {
		return nil, err
	}
	ranks := make([]FriendRank, 0, len(counts))
	for _, fc := range counts {
		user, err := s.users.GetByID(fc.UserID)
		if err != nil {
			continue
		}
		ranks = append(ranks, FriendRank{
			ID:           user.ID,
			Username:     user.Username,
			AvatarImage:  user.AvatarImage,
			MessageCount: fc.MessageCount,
		})
	}
	return ranks, nil
}

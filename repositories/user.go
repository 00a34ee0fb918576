//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"snappy/domain"
	"snappy/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (string, error)
	GetByID(id string) (domain.User, error)
	GetByUsername(username string) (domain.User, error)
	SetOnline(id string, online bool) error
	SetAvatar(id, image string) error
	AllUsers(exceptID string) ([]domain.User, error)
	ResetOnlineStatuses() error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// diskUser is the JSON document persisted in Badger.
//
// Key layout:
//
//	user:{id}            -> diskUser
//	username:{username}  -> id
//	email:{email}        -> id
type diskUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	AvatarImage  string `json:"avatarImage"`
	IsOnline     bool   `json:"isOnline"`
	CreatedAt    int64  `json:"createdAt"`
}

// CreateUser persists a new user and its username/email lookup keys in one
// transaction. Uniqueness of both is enforced inside the transaction.
func (u *UserRepository) CreateUser(username, email, hashedPassword string) (string, error) {
	newID := uuid.NewString()
	disk := diskUser{
		ID:           newID,
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().Unix(),
	}
	data, err := json.Marshal(disk)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		usernameKey := []byte("username:" + username)
		if _, err := txn.Get(usernameKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		emailKey := []byte("email:" + email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrEmailAlreadyExists
		}
		if err := txn.Set([]byte("user:"+newID), data); err != nil {
			return err
		}
		if err := txn.Set(usernameKey, []byte(newID)); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(newID))
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func (u *UserRepository) GetByID(id string) (domain.User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		return getUserTxn(txn, id, &disk)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func (u *UserRepository) GetByUsername(username string) (domain.User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("username:" + username))
		if err != nil {
			return errors.ErrUserNotFound
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getUserTxn(txn, string(id), &disk)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

// SetOnline updates the persisted presence flag. Called by the connection
// lifecycle before the in-memory registry is touched.
func (u *UserRepository) SetOnline(id string, online bool) error {
	return u.updateUser(id, func(disk *diskUser) {
		disk.IsOnline = online
	})
}

func (u *UserRepository) SetAvatar(id, image string) error {
	return u.updateUser(id, func(disk *diskUser) {
		disk.AvatarImage = image
	})
}

// AllUsers returns every user except the given one, for the contact list.
func (u *UserRepository) AllUsers(exceptID string) ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskUser
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			if disk.ID == exceptID {
				continue
			}
			users = append(users, toUser(disk))
		}
		return nil
	})
	return users, err
}

// ResetOnlineStatuses clears every persisted online flag. Run once on
// server start: with a single process no user can still be connected.
func (u *UserRepository) ResetOnlineStatuses() error {
	return u.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("user:")

		var updates [][2][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var disk diskUser
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			if !disk.IsOnline {
				continue
			}
			disk.IsOnline = false
			data, err := json.Marshal(disk)
			if err != nil {
				return err
			}
			updates = append(updates, [2][]byte{item.KeyCopy(nil), data})
		}
		for _, kv := range updates {
			if err := txn.Set(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *UserRepository) updateUser(id string, mutate func(*diskUser)) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var disk diskUser
		if err := getUserTxn(txn, id, &disk); err != nil {
			return err
		}
		mutate(&disk)
		data, err := json.Marshal(disk)
		if err != nil {
			return err
		}
		return txn.Set([]byte("user:"+id), data)
	})
}

func getUserTxn(txn *badger.Txn, id string, disk *diskUser) error {
	item, err := txn.Get([]byte("user:" + id))
	if err != nil {
		return errors.ErrUserNotFound
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, disk)
	})
}

func toUser(disk diskUser) domain.User {
	return domain.User{
		ID:           disk.ID,
		Username:     disk.Username,
		Email:        disk.Email,
		PasswordHash: disk.PasswordHash,
		AvatarImage:  disk.AvatarImage,
		IsOnline:     disk.IsOnline,
		CreatedAt:    time.Unix(disk.CreatedAt, 0).UTC(),
	}
}

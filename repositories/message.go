//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"snappy/domain"
	"snappy/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Create(message domain.Message) error
	GetByID(id uuid.UUID) (domain.Message, error)
	Conversation(a, b string, anonymous bool) ([]domain.Message, error)
	AnonymousSentBy(sender, recipient string) ([]domain.Message, error)
	AnonymousInbox(recipient string) ([]domain.Message, error)
	UpdateFlags(id uuid.UUID, mutate func(*domain.Message)) (domain.Message, error)
	StopReceiving(sender, recipient string) (int, error)
	HasReceivingStopped(sender, recipient string) (bool, error)
	TopFriends(userID string, limit int) ([]FriendCount, error)
	ContactIDs(userID string) ([]string, error)
}

// FriendCount ranks a counterpart by the number of messages exchanged
// with the queried user, both regular and anonymous.
type FriendCount struct {
	UserID       string
	MessageCount int
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the JSON document persisted in Badger.
type diskMessage struct {
	ID                      string `json:"id"`
	Sender                  string `json:"sender"`
	Recipient               string `json:"recipient"`
	Text                    string `json:"text"`
	At                      int64  `json:"at"`
	IsAnonymous             bool   `json:"isAnonymous"`
	IdentityRevealRequested bool   `json:"identityRevealRequested"`
	IdentityRevealed        bool   `json:"identityRevealed"`
	ReceivingStopped        bool   `json:"receivingStopped"`
}

// Key layout:
//
//	msg:{a}:{b}:{timestamp_padded}:{uuid}  -> diskMessage (a, b ordered pair)
//	id:{uuid}                              -> primary key
//	inbox:{recipient}:{timestamp_padded}:{uuid} -> primary key (anonymous only)
//
// The 19-digit zero-padded UnixNano keeps prefix scans chronologically
// sorted; the UUID suffix disambiguates two messages in the same nanosecond.
func messageKey(m domain.Message) []byte {
	a, b := domain.OrderPair(m.Sender, m.Recipient)
	return []byte(fmt.Sprintf("msg:%s:%s:%019d:%s", a, b, m.CreatedAt.UnixNano(), m.ID))
}

func pairPrefix(x, y string) []byte {
	a, b := domain.OrderPair(x, y)
	return []byte(fmt.Sprintf("msg:%s:%s:", a, b))
}

func idKey(id uuid.UUID) []byte {
	return []byte("id:" + id.String())
}

func inboxKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("inbox:%s:%019d:%s", m.Recipient, m.CreatedAt.UnixNano(), m.ID))
}

// Create persists a message together with its id and, for anonymous
// messages, inbox index entries. All three writes share one transaction.
func (m MessageRepository) Create(message domain.Message) error {
	primary := messageKey(message)
	bytes, err := json.Marshal(fromDomain(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primary, bytes); err != nil {
			return err
		}
		if err := txn.Set(idKey(message.ID), primary); err != nil {
			return err
		}
		if message.IsAnonymous {
			return txn.Set(inboxKey(message), primary)
		}
		return nil
	})
}

func (m MessageRepository) GetByID(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = getByIDTxn(txn, id)
		return err
	})
	return message, err
}

func getByIDTxn(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	item, err := txn.Get(idKey(id))
	if err != nil {
		return domain.Message{}, nil, errors.ErrMessageNotFound
	}
	primary, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, nil, err
	}
	record, err := txn.Get(primary)
	if err != nil {
		return domain.Message{}, nil, errors.ErrMessageNotFound
	}
	var disk diskMessage
	if err = record.Value(func(val []byte) error {
		return json.Unmarshal(val, &disk)
	}); err != nil {
		return domain.Message{}, nil, err
	}
	message, err := toDomain(disk)
	return message, primary, err
}

// Conversation returns the chronological history between two users,
// restricted to one side of the anonymity split. Regular and anonymous
// messages share the key space but no read path ever mixes them.
func (m MessageRepository) Conversation(a, b string, anonymous bool) ([]domain.Message, error) {
	return m.scan(pairPrefix(a, b), func(msg domain.Message) bool {
		return msg.IsAnonymous == anonymous
	})
}

// AnonymousSentBy returns the anonymous messages one user has sent to
// another, for the sender's own conversation view.
func (m MessageRepository) AnonymousSentBy(sender, recipient string) ([]domain.Message, error) {
	return m.scan(pairPrefix(sender, recipient), func(msg domain.Message) bool {
		return msg.IsAnonymous && msg.Sender == sender
	})
}

// AnonymousInbox returns every anonymous message addressed to the
// recipient, across all senders, via the inbox index.
func (m MessageRepository) AnonymousInbox(recipient string) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte("inbox:" + recipient + ":")
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			primary, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := txn.Get(primary)
			if err != nil {
				return err
			}
			var disk diskMessage
			if err = record.Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			message, err := toDomain(disk)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// UpdateFlags applies a read-modify-write on a single message. The mutation
// runs inside the transaction so concurrent updates never lose flags.
func (m MessageRepository) UpdateFlags(id uuid.UUID, mutate func(*domain.Message)) (domain.Message, error) {
	var updated domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		message, primary, err := getByIDTxn(txn, id)
		if err != nil {
			return err
		}
		mutate(&message)
		bytes, err := json.Marshal(fromDomain(message))
		if err != nil {
			return err
		}
		updated = message
		return txn.Set(primary, bytes)
	})
	return updated, err
}

// StopReceiving marks ReceivingStopped on every anonymous message the
// sender has sent to the recipient, in one batch transaction. Returns the
// number of records updated.
func (m MessageRepository) StopReceiving(sender, recipient string) (int, error) {
	var count int
	prefix := pairPrefix(sender, recipient)
	err := m.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		type pending struct {
			key  []byte
			disk diskMessage
		}
		var updates []pending
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var disk diskMessage
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			if !disk.IsAnonymous || disk.Sender != sender || disk.ReceivingStopped {
				continue
			}
			disk.ReceivingStopped = true
			updates = append(updates, pending{key: item.KeyCopy(nil), disk: disk})
		}
		for _, u := range updates {
			bytes, err := json.Marshal(u.disk)
			if err != nil {
				return err
			}
			if err := txn.Set(u.key, bytes); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// HasReceivingStopped reports whether the sender→recipient anonymous
// direction is blocked: one flagged message blocks the whole direction.
func (m MessageRepository) HasReceivingStopped(sender, recipient string) (bool, error) {
	blocked := false
	prefix := pairPrefix(sender, recipient)
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			if disk.IsAnonymous && disk.Sender == sender && disk.ReceivingStopped {
				blocked = true
				return nil
			}
		}
		return nil
	})
	return blocked, err
}

// TopFriends counts messages per counterpart with a key-only scan: the
// participant pair is embedded in every primary key, so no value needs to
// be fetched.
func (m MessageRepository) TopFriends(userID string, limit int) ([]FriendCount, error) {
	counts := make(map[string]int)
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		prefix := []byte("msg:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if other, ok := counterpart(string(it.Item().Key()), userID); ok {
				counts[other]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ranked := lo.MapToSlice(counts, func(id string, n int) FriendCount {
		return FriendCount{UserID: id, MessageCount: n}
	})
	// Count descending, then id for a stable order.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MessageCount != ranked[j].MessageCount {
			return ranked[i].MessageCount > ranked[j].MessageCount
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ContactIDs returns the distinct counterparts the user has exchanged
// regular messages with.
func (m MessageRepository) ContactIDs(userID string) ([]string, error) {
	seen := make(map[string]struct{})
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("msg:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			other, ok := counterpart(string(it.Item().Key()), userID)
			if !ok {
				continue
			}
			if _, dup := seen[other]; dup {
				continue
			}
			var disk diskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			if !disk.IsAnonymous {
				seen[other] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Keys(seen), nil
}

// counterpart extracts the other participant from a primary key when the
// given user is one of the pair.
func counterpart(key, userID string) (string, bool) {
	parts := strings.SplitN(key, ":", 5)
	if len(parts) != 5 || parts[0] != "msg" {
		return "", false
	}
	switch userID {
	case parts[1]:
		return parts[2], true
	case parts[2]:
		return parts[1], true
	default:
		return "", false
	}
}

func fromDomain(message domain.Message) diskMessage {
	return diskMessage{
		ID:                      message.ID.String(),
		Sender:                  message.Sender,
		Recipient:               message.Recipient,
		Text:                    message.Text,
		At:                      message.CreatedAt.UnixNano(),
		IsAnonymous:             message.IsAnonymous,
		IdentityRevealRequested: message.IdentityRevealRequested,
		IdentityRevealed:        message.IdentityRevealed,
		ReceivingStopped:        message.ReceivingStopped,
	}
}

func toDomain(disk diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:                      parsedID,
		Sender:                  disk.Sender,
		Recipient:               disk.Recipient,
		Text:                    disk.Text,
		CreatedAt:               time.Unix(0, disk.At).UTC(),
		IsAnonymous:             disk.IsAnonymous,
		IdentityRevealRequested: disk.IdentityRevealRequested,
		IdentityRevealed:        disk.IdentityRevealed,
		ReceivingStopped:        disk.ReceivingStopped,
	}, nil
}

func (m MessageRepository) scan(prefix []byte, keep func(domain.Message) bool) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			message, err := toDomain(disk)
			if err != nil {
				return err
			}
			if keep(message) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	return messages, err
}

package repositories

import (
	"log/slog"
	"testing"
	"time"

	"snappy/domain"
	"snappy/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func makeMessage(sender, recipient, text string, at time.Time, anonymous bool) domain.Message {
	return domain.Message{
		ID:          uuid.New(),
		Sender:      sender,
		Recipient:   recipient,
		Text:        text,
		CreatedAt:   at,
		IsAnonymous: anonymous,
	}
}

func Test_Conversation_Is_Chronological_Across_Directions(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	first := makeMessage("alice", "bob", "hi", at, false)
	second := makeMessage("bob", "alice", "hey", at.Add(1*time.Minute), false)
	third := makeMessage("alice", "bob", "how are you", at.Add(2*time.Minute), false)

	// Insert out of order to prove ordering comes from the key layout
	for _, msg := range []domain.Message{third, first, second} {
		req.NoError(repository.Create(msg))
	}

	fetched, err := repository.Conversation("bob", "alice", false)
	req.NoError(err)
	req.Equal([]domain.Message{first, second, third}, fetched)
}

func Test_Conversation_Separates_Anonymous_From_Regular(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	regular := makeMessage("alice", "bob", "open", at, false)
	anonymous := makeMessage("alice", "bob", "secret", at.Add(time.Second), true)
	req.NoError(repository.Create(regular))
	req.NoError(repository.Create(anonymous))

	fetched, err := repository.Conversation("alice", "bob", false)
	req.NoError(err)
	req.Equal([]domain.Message{regular}, fetched)

	fetched, err = repository.Conversation("alice", "bob", true)
	req.NoError(err)
	req.Equal([]domain.Message{anonymous}, fetched)
}

func Test_GetByID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	msg := makeMessage("alice", "bob", "find me", time.Now().UTC(), false)
	req.NoError(repository.Create(msg))

	fetched, err := repository.GetByID(msg.ID)
	req.NoError(err)
	req.Equal(msg, fetched)

	_, err = repository.GetByID(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_AnonymousInbox_Spans_Senders(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	fromAlice := makeMessage("alice", "bob", "one", at, true)
	fromCarol := makeMessage("carol", "bob", "two", at.Add(time.Minute), true)
	regular := makeMessage("dave", "bob", "not anonymous", at.Add(2*time.Minute), false)
	otherInbox := makeMessage("alice", "carol", "wrong recipient", at.Add(3*time.Minute), true)
	for _, msg := range []domain.Message{fromAlice, fromCarol, regular, otherInbox} {
		req.NoError(repository.Create(msg))
	}

	inbox, err := repository.AnonymousInbox("bob")
	req.NoError(err)
	req.Equal([]domain.Message{fromAlice, fromCarol}, inbox)
}

func Test_AnonymousSentBy_Excludes_Other_Direction(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	sent := makeMessage("alice", "bob", "mine", at, true)
	received := makeMessage("bob", "alice", "theirs", at.Add(time.Minute), true)
	req.NoError(repository.Create(sent))
	req.NoError(repository.Create(received))

	fetched, err := repository.AnonymousSentBy("alice", "bob")
	req.NoError(err)
	req.Equal([]domain.Message{sent}, fetched)
}

func Test_UpdateFlags_Touches_Only_One_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	first := makeMessage("alice", "bob", "one", at, true)
	second := makeMessage("alice", "bob", "two", at.Add(time.Minute), true)
	req.NoError(repository.Create(first))
	req.NoError(repository.Create(second))

	updated, err := repository.UpdateFlags(first.ID, func(msg *domain.Message) {
		msg.IdentityRevealed = true
	})
	req.NoError(err)
	req.True(updated.IdentityRevealed)

	// A sibling message in the same direction keeps its own flags
	sibling, err := repository.GetByID(second.ID)
	req.NoError(err)
	req.False(sibling.IdentityRevealed)

	_, err = repository.UpdateFlags(uuid.New(), func(*domain.Message) {})
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_StopReceiving_Flags_Whole_Direction(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	toBob1 := makeMessage("alice", "bob", "one", at, true)
	toBob2 := makeMessage("alice", "bob", "two", at.Add(time.Minute), true)
	reverse := makeMessage("bob", "alice", "reverse direction", at.Add(2*time.Minute), true)
	regular := makeMessage("alice", "bob", "regular stays", at.Add(3*time.Minute), false)
	for _, msg := range []domain.Message{toBob1, toBob2, reverse, regular} {
		req.NoError(repository.Create(msg))
	}

	blocked, err := repository.HasReceivingStopped("alice", "bob")
	req.NoError(err)
	req.False(blocked)

	count, err := repository.StopReceiving("alice", "bob")
	req.NoError(err)
	req.Equal(2, count)

	blocked, err = repository.HasReceivingStopped("alice", "bob")
	req.NoError(err)
	req.True(blocked)

	// The opposite direction stays open
	blocked, err = repository.HasReceivingStopped("bob", "alice")
	req.NoError(err)
	req.False(blocked)

	// Already-flagged messages are not counted twice
	count, err = repository.StopReceiving("alice", "bob")
	req.NoError(err)
	req.Equal(0, count)
}

func Test_TopFriends_Ranks_By_Volume(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	// alice<->bob: 3 messages, alice<->carol: 2, alice<->dave: 1
	seed := []domain.Message{
		makeMessage("alice", "bob", "1", at, false),
		makeMessage("bob", "alice", "2", at.Add(1*time.Second), false),
		makeMessage("alice", "bob", "3", at.Add(2*time.Second), true),
		makeMessage("carol", "alice", "4", at.Add(3*time.Second), false),
		makeMessage("alice", "carol", "5", at.Add(4*time.Second), false),
		makeMessage("alice", "dave", "6", at.Add(5*time.Second), false),
		makeMessage("carol", "dave", "not alice", at.Add(6*time.Second), false),
	}
	for _, msg := range seed {
		req.NoError(repository.Create(msg))
	}

	ranked, err := repository.TopFriends("alice", 2)
	req.NoError(err)
	req.Equal([]FriendCount{
		{UserID: "bob", MessageCount: 3},
		{UserID: "carol", MessageCount: 2},
	}, ranked)
}

func Test_ContactIDs_Only_Regular_Counterparts(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	seed := []domain.Message{
		makeMessage("alice", "bob", "regular", at, false),
		makeMessage("carol", "alice", "regular too", at.Add(time.Second), false),
		makeMessage("alice", "dave", "anonymous only", at.Add(2*time.Second), true),
	}
	for _, msg := range seed {
		req.NoError(repository.Create(msg))
	}

	contacts, err := repository.ContactIDs("alice")
	req.NoError(err)
	req.ElementsMatch([]string{"bob", "carol"}, contacts)
}

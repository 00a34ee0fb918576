package runtime

import (
	"context"
	"testing"
	"time"

	"snappy/domain/event"
	"snappy/errors"
	"snappy/internal/logs"
	"snappy/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testExpiry = 50 * time.Millisecond
	noThrottle = 0
)

func TestCoordinator_StartNotifiesRecipient(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, noThrottle)

	// Given the recipient is online
	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(1)
	// Then exactly one typing-start lands on the recipient
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStart, event.Typing{From: "alice"})).
		Return(nil).Times(1)

	// When the sender starts typing
	err := coordinator.Start(context.Background(), "alice", "bob")

	req.NoError(err)
	req.True(coordinator.Live("alice", "bob"))
}

func TestCoordinator_RefreshDoesNotRepush(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, noThrottle)

	// Given the first start notified the recipient
	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(1)
	recipientSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	// When the sender keeps typing, the session only re-arms
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	req.True(coordinator.Live("alice", "bob"))
}

func TestCoordinator_SessionExpiresIntoTypingStop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, testExpiry, noThrottle)

	stopped := make(chan struct{})

	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(2)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStart, event.Typing{From: "alice"})).
		Return(nil).Times(1)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStop, event.Typing{From: "alice"})).
		DoAndReturn(func(context.Context, event.Event) error {
			close(stopped)
			return nil
		}).Times(1)

	// Given a session that is never refreshed
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	// Then the expiry delivers the stop on its own
	select {
	case <-stopped:
	case <-time.After(time.Second):
		req.Fail("expiry never fired")
	}
	req.False(coordinator.Live("alice", "bob"))
}

func TestCoordinator_StopCancelsAndNotifies(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, noThrottle)

	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(2)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStart, event.Typing{From: "alice"})).
		Return(nil).Times(1)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStop, event.Typing{From: "alice"})).
		Return(nil).Times(1)

	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))
	req.NoError(coordinator.Stop(context.Background(), "alice", "bob"))
	req.False(coordinator.Live("alice", "bob"))
}

func TestCoordinator_StopWithoutSessionIsSilent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, noThrottle)

	// No session exists, so no lookup and no event may happen
	mockRegistry.EXPECT().Lookup(gomock.Any()).Times(0)

	req.NoError(coordinator.Stop(context.Background(), "alice", "bob"))
}

func TestCoordinator_ThrottleRejectsInsideWindow(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, time.Minute)

	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(1)
	recipientSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Given one accepted start inside the window
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	// Then every further start is rejected, even for another recipient
	req.ErrorIs(coordinator.Start(context.Background(), "alice", "bob"), errors.ErrRateLimited)
	req.ErrorIs(coordinator.Start(context.Background(), "alice", "carol"), errors.ErrRateLimited)

	// But the stop kind has its own budget
	req.NoError(coordinator.Stop(context.Background(), "alice", "carol"))
}

func TestCoordinator_ValidatesIdentities(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"),
		mocks.NewMockIRegistry(ctrl), time.Minute, noThrottle)

	req.ErrorIs(coordinator.Start(context.Background(), "", "bob"), errors.ErrMissingIdentity)
	req.ErrorIs(coordinator.Start(context.Background(), "alice", ""), errors.ErrMissingRecipient)
	req.ErrorIs(coordinator.Stop(context.Background(), "", "bob"), errors.ErrMissingIdentity)
	req.ErrorIs(coordinator.Stop(context.Background(), "alice", ""), errors.ErrMissingRecipient)
}

func TestCoordinator_ClearIsSilent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, testExpiry, noThrottle)

	// Only the initial typing-start may reach the recipient
	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(1)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStart, event.Typing{From: "alice"})).
		Return(nil).Times(1)

	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	// When the session is cleared, no typing-stop follows, not even
	// from the already-armed expiry timer
	coordinator.Clear("alice", "bob")
	req.False(coordinator.Live("alice", "bob"))
	time.Sleep(3 * testExpiry)
}

func TestCoordinator_SweepRemovesBothDirections(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, time.Minute, noThrottle)

	sink := mocks.NewMockEventSink(ctrl)
	mockRegistry.EXPECT().Lookup(gomock.Any()).Return(sink, true).AnyTimes()
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// Given sessions where alice types, is typed at, and is uninvolved
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))
	req.NoError(coordinator.Start(context.Background(), "bob", "alice"))
	req.NoError(coordinator.Start(context.Background(), "carol", "dave"))

	// When alice disconnects
	coordinator.Sweep("alice")

	// Then only sessions touching alice are gone
	req.False(coordinator.Live("alice", "bob"))
	req.False(coordinator.Live("bob", "alice"))
	req.True(coordinator.Live("carol", "dave"))
}

func TestCoordinator_RefreshOutlivesOriginalExpiry(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	recipientSink := mocks.NewMockEventSink(ctrl)
	coordinator := NewCoordinator(logs.GetLoggerFromString("DEBUG"), mockRegistry, testExpiry, noThrottle)

	stopped := make(chan struct{})

	mockRegistry.EXPECT().Lookup("bob").Return(recipientSink, true).Times(2)
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStart, event.Typing{From: "alice"})).
		Return(nil).Times(1)
	// Exactly one typing-stop despite two armed timers over the session's life
	recipientSink.EXPECT().
		Consume(gomock.Any(), event.New(event.TypingStop, event.Typing{From: "alice"})).
		DoAndReturn(func(context.Context, event.Event) error {
			close(stopped)
			return nil
		}).Times(1)

	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))
	time.Sleep(testExpiry / 2)
	req.NoError(coordinator.Start(context.Background(), "alice", "bob"))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		req.Fail("refreshed session never expired")
	}
}

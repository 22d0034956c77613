package test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lingua-room/contract"
	"lingua-room/domain"
	"lingua-room/mocks"
	"lingua-room/repositories"
	"lingua-room/runtime"
)

// loopbackChannel fans published messages out to every subscription of
// the same room, including the publisher, mimicking the broadcast
// semantics of the realtime relay without a network.
type loopbackChannel struct {
	mu    sync.Mutex
	rooms map[domain.RoomID][]*loopbackSubscription
}

func newLoopbackChannel() *loopbackChannel {
	return &loopbackChannel{rooms: make(map[domain.RoomID][]*loopbackSubscription)}
}

func (c *loopbackChannel) Subscribe(_ context.Context, _ string, roomID domain.RoomID) (contract.Subscription, error) {
	sub := &loopbackSubscription{
		channel:    c,
		roomID:     roomID,
		deliveries: make(chan domain.Message, 16),
	}
	c.mu.Lock()
	c.rooms[roomID] = append(c.rooms[roomID], sub)
	c.mu.Unlock()
	return sub, nil
}

type loopbackSubscription struct {
	channel    *loopbackChannel
	roomID     domain.RoomID
	deliveries chan domain.Message
	closeOnce  sync.Once
}

func (s *loopbackSubscription) Deliveries() <-chan domain.Message {
	return s.deliveries
}

func (s *loopbackSubscription) Publish(_ context.Context, _ string, msg domain.Message) error {
	s.channel.mu.Lock()
	peers := append([]*loopbackSubscription(nil), s.channel.rooms[s.roomID]...)
	s.channel.mu.Unlock()
	for _, peer := range peers {
		peer.deliveries <- msg
	}
	return nil
}

func (s *loopbackSubscription) Close() error {
	s.channel.mu.Lock()
	subs := s.channel.rooms[s.roomID]
	for i, sub := range subs {
		if sub == s {
			s.channel.rooms[s.roomID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.channel.mu.Unlock()
	s.closeOnce.Do(func() { close(s.deliveries) })
	return nil
}

// Test_Scenario wires two full engines against one shared store and
// channel: an English speaker and a Spanish speaker meet in a room, the
// English message arrives translated on the Spanish side, and the
// sender's own log stays untranslated.
func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	store := repositories.NewMessageRepository(db, log)
	channel := newLoopbackChannel()

	alice := newEngine(t, req, ctrl, log, store, channel, "en")
	bob := newEngine(t, req, ctrl, log, store, channel, "es")

	room := domain.NormalizeRoomCode("blue-07")
	req.NoError(alice.Join(ctx, room))
	req.NoError(bob.Join(ctx, room))

	// When Alice posts in English
	sent, err := alice.Send(ctx, "Hello", "en")
	req.NoError(err)
	req.NotEmpty(sent.ID)
	req.False(sent.CreatedAt.IsZero())

	// Then Bob sees it translated into his display language
	req.Eventually(func() bool {
		return len(bob.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond, "message never reached the peer engine")

	received := bob.Messages()[0]
	req.Equal(sent.ID, received.ID)
	req.Equal("Hello", received.Text)
	req.Equal("Hola", received.TranslatedText)
	req.Equal("Hola", received.DisplayText())

	// And Alice's own log carries no translation
	req.Len(alice.Messages(), 1)
	req.Empty(alice.Messages()[0].TranslatedText)
	req.Equal("Hello", alice.Messages()[0].DisplayText())

	// And a late joiner reconciles the full history from the store
	carol := newEngine(t, req, ctrl, log, store, channel, "en")
	req.NoError(carol.Join(ctx, room))
	req.Len(carol.Messages(), 1)
	req.Equal(sent.ID, carol.Messages()[0].ID)
}

func newEngine(t *testing.T, req *require.Assertions, ctrl *gomock.Controller,
	log *slog.Logger, store contract.MessageStore, channel contract.Channel,
	language string) *runtime.Engine {
	t.Helper()

	sessions := mocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().Load().Return(domain.Session{DisplayLanguage: language}, nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	translator := mocks.NewMockTranslator(ctrl)
	translator.EXPECT().
		Translate(gomock.Any(), "Hello", "en", "es").
		Return("Hola").
		AnyTimes()

	engine, err := runtime.NewEngine(log, store, channel, translator, sessions)
	req.NoError(err)
	t.Cleanup(engine.Leave)
	return engine
}

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"lingua-room/domain"
)

// EventNewMessage is the channel event carrying freshly minted messages.
const EventNewMessage = "new_message"

// MessageStore is the durable, authoritative collection of messages.
// Insert is the only path that mints canonical IDs and timestamps.
type MessageStore interface {
	Insert(ctx context.Context, draft domain.Draft) (domain.Message, error)
	History(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error)
}

// Channel is the realtime distribution collaborator. Delivery is
// at-least-once with no cross-sender ordering; duplicates are absorbed
// by the engine's id dedup and drops are reconciled by History on rejoin.
type Channel interface {
	Subscribe(ctx context.Context, event string, roomID domain.RoomID) (Subscription, error)
}

// Subscription is one live room-scoped attachment to the channel.
// Deliveries is closed when the subscription dies for any reason.
type Subscription interface {
	Deliveries() <-chan domain.Message
	Publish(ctx context.Context, event string, msg domain.Message) error
	Close() error
}

// Translator converts text between languages. It never fails: any
// breakage must be absorbed and the original text returned, because a
// chat must not lose content to a translation outage.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// SessionStore persists the local identity across restarts.
type SessionStore interface {
	Load() (domain.Session, error)
	Save(session domain.Session) error
}

// EventSink receives every message appended to the local log
// (render surfaces, search indexers).
type EventSink interface {
	Consume(ctx context.Context, msg domain.Message) error
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"lingua-room/domain"
)

// MessageRepository is the single-host durable store. It mints the
// canonical id and timestamp on insert, which keeps client clocks out
// of the ordering contract.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// diskMessage is the stored record shape. Translations are viewer-local
// enrichments and deliberately have no field here.
type diskMessage struct {
	ID       string    `json:"id"`
	RoomID   string    `json:"room_id"`
	AuthorID string    `json:"user_id"`
	Text     string    `json:"text"`
	Language string    `json:"language"`
	At       time.Time `json:"created_at"`
}

// Insert persists a draft and returns the fully minted message.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Break same-nanosecond ties by uuid, matching the display order's
//     lexical id tie-break.
func (m *MessageRepository) Insert(_ context.Context, draft domain.Draft) (domain.Message, error) {
	msg := domain.Message{
		ID:        uuid.NewString(),
		RoomID:    draft.RoomID,
		AuthorID:  draft.AuthorID,
		Text:      draft.Text,
		Language:  draft.Language,
		CreatedAt: time.Now().UTC(),
	}
	key := fmt.Sprintf("msg:%s:%019d:%s", msg.RoomID, msg.CreatedAt.UnixNano(), msg.ID)
	bytes, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return domain.Message{}, err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// History retrieves every message of a room using a prefix scan.
// Thanks to the padded timestamp in the key, messages come back
// naturally sorted by time.
func (m *MessageRepository) History(_ context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	var records []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var record diskMessage
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(records, func(record diskMessage, _ int) domain.Message {
		return toMessage(record)
	}), nil
}

func fromMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:       msg.ID,
		RoomID:   string(msg.RoomID),
		AuthorID: msg.AuthorID,
		Text:     msg.Text,
		Language: msg.Language,
		At:       msg.CreatedAt,
	}
}

func toMessage(record diskMessage) domain.Message {
	return domain.Message{
		ID:        record.ID,
		RoomID:    domain.RoomID(record.RoomID),
		AuthorID:  record.AuthorID,
		Text:      record.Text,
		Language:  record.Language,
		CreatedAt: record.At,
	}
}

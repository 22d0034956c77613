package ws

import (
	"encoding/json"
	"time"

	"lingua-room/domain"
)

// Envelope is the wire frame for every channel event.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// wireMessage mirrors the durable record shape so relayed payloads and
// stored rows stay interchangeable.
type wireMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	AuthorID  string    `json:"user_id"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func fromMessage(msg domain.Message) wireMessage {
	return wireMessage{
		ID:        msg.ID,
		RoomID:    string(msg.RoomID),
		AuthorID:  msg.AuthorID,
		Text:      msg.Text,
		Language:  msg.Language,
		CreatedAt: msg.CreatedAt,
	}
}

func toMessage(wire wireMessage) domain.Message {
	return domain.Message{
		ID:        wire.ID,
		RoomID:    domain.RoomID(wire.RoomID),
		AuthorID:  wire.AuthorID,
		Text:      wire.Text,
		Language:  wire.Language,
		CreatedAt: wire.CreatedAt,
	}
}

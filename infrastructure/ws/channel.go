// Package ws implements the realtime distribution channel over a
// websocket relay: one connection per room, JSON envelopes, best-effort
// delivery. Lost or duplicated frames are tolerated by design; the
// engine reconciles from the durable store.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lingua-room/contract"
	"lingua-room/domain"
)

const writeTimeout = 5 * time.Second

type Channel struct {
	baseURL string
	apiKey  string
	buffer  int
	log     *slog.Logger
	dialer  *websocket.Dialer
}

func NewChannel(log *slog.Logger, baseURL, apiKey string, buffer int) *Channel {
	return &Channel{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		buffer:  buffer,
		log:     log,
		dialer:  websocket.DefaultDialer,
	}
}

// Subscribe dials a room-scoped connection and starts its read pump.
func (c *Channel) Subscribe(ctx context.Context, event string, roomID domain.RoomID) (contract.Subscription, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(string(roomID)))
	if c.apiKey != "" {
		endpoint = fmt.Sprintf("%s?api_key=%s", endpoint, url.QueryEscape(c.apiKey))
	}

	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing channel for room %s: %w", roomID, err)
	}

	sub := &subscription{
		conn:       conn,
		event:      event,
		roomID:     roomID,
		deliveries: make(chan domain.Message, c.buffer),
		log:        c.log,
	}
	go sub.readPump()
	return sub, nil
}

type subscription struct {
	conn       *websocket.Conn
	event      string
	roomID     domain.RoomID
	deliveries chan domain.Message
	log        *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (s *subscription) Deliveries() <-chan domain.Message {
	return s.deliveries
}

// readPump decodes frames until the connection dies, then closes the
// delivery stream so the engine notices the subscription is gone.
func (s *subscription) readPump() {
	defer close(s.deliveries)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("channel connection dropped", "room", s.roomID, "error", err)
			}
			return
		}

		var envelope Envelope
		if err = json.Unmarshal(data, &envelope); err != nil {
			s.log.Debug("discarding unreadable frame", "room", s.roomID, "error", err)
			continue
		}
		if envelope.Event != s.event {
			continue
		}
		var wire wireMessage
		if err = json.Unmarshal(envelope.Payload, &wire); err != nil {
			s.log.Debug("discarding unreadable payload", "room", s.roomID, "error", err)
			continue
		}

		select {
		case s.deliveries <- toMessage(wire):
		default:
			// A stalled consumer must not wedge the pump; the drop is
			// recovered by the next history load.
			s.log.Warn("delivery buffer full, dropping frame", "room", s.roomID)
		}
	}
}

func (s *subscription) Publish(_ context.Context, event string, msg domain.Message) error {
	payload, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(Envelope{Event: event, Payload: payload})
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

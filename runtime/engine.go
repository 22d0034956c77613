// Package runtime synchronizes one chat session with its collaborators.
// It owns the subscribe/send/receive flows and the room lifecycle; domain
// rules live in domain, storage and transport behind contract interfaces.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"lingua-room/contract"
	"lingua-room/domain"
	"lingua-room/errors"
	"lingua-room/projection"
	"lingua-room/translation"
)

// State tracks the room subscription lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Subscribed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Subscribed:
		return "subscribed"
	default:
		return "disconnected"
	}
}

// Engine composes the durable store, the realtime channel and the
// translator into one session. One instance per active session; there
// are no process-wide singletons.
//
// Every async result (persist, translate, history load) captures the
// subscription it was issued for and re-checks it before touching
// shared state, so a room switch mid-flight discards stale results
// instead of applying them to the new room.
type Engine struct {
	log        *slog.Logger
	store      contract.MessageStore
	channel    contract.Channel
	translator contract.Translator
	sessions   contract.SessionStore

	detect func(string) string

	mu       sync.Mutex
	session  domain.Session
	state    State
	sub      contract.Subscription
	timeline *projection.Timeline
	sinks    []contract.EventSink

	// sendMu keeps at most one send in flight so a single sender's
	// CreatedAt values stay monotonic from its own perspective.
	sendMu sync.Mutex
}

// NewEngine restores the session identity from the session store,
// minting and persisting a fresh user id on first run.
func NewEngine(log *slog.Logger, store contract.MessageStore, channel contract.Channel,
	translator contract.Translator, sessions contract.SessionStore) (*Engine, error) {
	session, err := sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	changed := false
	if session.UserID == "" {
		session.UserID = uuid.NewString()
		changed = true
	}
	if session.DisplayLanguage == "" {
		session.DisplayLanguage = domain.DefaultLanguage
		changed = true
	}
	if changed {
		if err = sessions.Save(session); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}

	return &Engine{
		log:        log,
		store:      store,
		channel:    channel,
		translator: translator,
		sessions:   sessions,
		detect:     translation.Detect,
		session:    session,
		timeline:   projection.NewTimeline(),
	}, nil
}

// RegisterSink attaches a consumer of appended messages
// (render surfaces, search indexers).
func (e *Engine) RegisterSink(sinks ...contract.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sinks...)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Session() domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Messages returns the current room log, ordered by (CreatedAt, ID).
func (e *Engine) Messages() []domain.Message {
	return e.timeline.Snapshot()
}

// Join subscribes to a room, loads its history and starts consuming
// deliveries. Joining the current room again is a no-op; joining a
// different one tears the previous subscription down first, so two
// live subscriptions never coexist.
func (e *Engine) Join(ctx context.Context, roomID domain.RoomID) error {
	e.mu.Lock()
	if e.state == Subscribed && e.session.RoomID == roomID {
		e.mu.Unlock()
		return nil
	}
	e.teardownLocked()
	e.state = Connecting
	e.session.RoomID = roomID
	e.mu.Unlock()

	sub, err := e.channel.Subscribe(ctx, contract.EventNewMessage, roomID)
	if err != nil {
		e.mu.Lock()
		e.state = Disconnected
		e.mu.Unlock()
		return fmt.Errorf("subscribing to room %s: %w", roomID, err)
	}

	history, err := e.store.History(ctx, roomID)
	if err != nil {
		_ = sub.Close()
		e.mu.Lock()
		e.state = Disconnected
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}

	e.mu.Lock()
	if e.session.RoomID != roomID || e.state != Connecting {
		// The session moved on while we were loading.
		e.mu.Unlock()
		_ = sub.Close()
		return nil
	}
	e.sub = sub
	e.state = Subscribed
	e.timeline.Replace(history)
	session := e.session
	e.mu.Unlock()

	if err = e.sessions.Save(session); err != nil {
		e.log.Warn("could not persist session", "error", err)
	}
	for _, msg := range history {
		e.fanout(ctx, msg)
	}

	go e.pump(roomID, sub)
	e.log.Info("joined room", "room", roomID, "history", len(history))
	return nil
}

// Leave closes the current subscription, if any.
func (e *Engine) Leave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
}

func (e *Engine) teardownLocked() {
	if e.sub != nil {
		_ = e.sub.Close()
		e.sub = nil
	}
	e.state = Disconnected
}

// Send persists a draft, broadcasts the minted message best-effort and
// appends it locally so the sender sees it without a round trip.
// A persist failure aborts the whole send: nothing is broadcast,
// nothing is appended. An empty language is filled in by detection.
func (e *Engine) Send(ctx context.Context, text, language string) (domain.Message, error) {
	e.mu.Lock()
	if e.state != Subscribed || e.sub == nil {
		e.mu.Unlock()
		return domain.Message{}, errors.ErrNotSubscribed
	}
	session := e.session
	sub := e.sub
	e.mu.Unlock()

	if language == "" {
		language = e.detect(text)
	}
	draft := domain.Draft{
		RoomID:   session.RoomID,
		AuthorID: session.UserID,
		Text:     text,
		Language: language,
	}
	if err := validateDraft(draft); err != nil {
		return domain.Message{}, err
	}

	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	msg, err := e.store.Insert(ctx, draft)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}

	e.mu.Lock()
	stale := e.sub != sub
	e.mu.Unlock()
	if stale {
		// Persisted to the old room; the new room's state stays untouched.
		e.log.Debug("discarding send result after room switch", "room", draft.RoomID)
		return msg, nil
	}

	// Broadcast is a low-latency hint, not the source of truth: peers
	// reconcile from the store on their next load if this is lost.
	if err = sub.Publish(ctx, contract.EventNewMessage, msg); err != nil {
		e.log.Warn("broadcast failed", "room", msg.RoomID, "error", err)
	}

	e.mu.Lock()
	appended := e.sub == sub && e.timeline.Insert(msg)
	e.mu.Unlock()
	if appended {
		e.fanout(ctx, msg)
	}
	return msg, nil
}

// SetDisplayLanguage changes the viewer language for future receive
// decisions. Already displayed messages keep their enrichment until an
// explicit Refresh.
func (e *Engine) SetDisplayLanguage(language string) error {
	if err := validateLanguage(language); err != nil {
		return err
	}
	e.mu.Lock()
	e.session.DisplayLanguage = language
	session := e.session
	e.mu.Unlock()
	return e.sessions.Save(session)
}

// Refresh reloads the current room's history wholesale, re-running
// translation decisions against the current display language.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Subscribed || e.sub == nil {
		e.mu.Unlock()
		return errors.ErrNotSubscribed
	}
	session := e.session
	sub := e.sub
	e.mu.Unlock()

	history, err := e.store.History(ctx, session.RoomID)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}
	for i, msg := range history {
		if msg.AuthorID != session.UserID && msg.Language != session.DisplayLanguage {
			history[i].TranslatedText = e.translator.Translate(ctx, msg.Text, msg.Language, session.DisplayLanguage)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sub != sub {
		return nil
	}
	e.timeline.Replace(history)
	return nil
}

// pump consumes one subscription until its delivery stream closes.
func (e *Engine) pump(roomID domain.RoomID, sub contract.Subscription) {
	for msg := range sub.Deliveries() {
		e.receive(context.Background(), roomID, sub, msg)
	}

	e.mu.Lock()
	lost := e.sub == sub
	if lost {
		e.sub = nil
		e.state = Disconnected
	}
	e.mu.Unlock()
	if lost {
		e.log.Warn("room subscription lost", "room", roomID)
	}
}

// receive merges one channel delivery into the local log: own messages
// and foreign-room payloads are discarded, foreign-language text gets a
// viewer-local translation on a copy, and the id dedup absorbs both
// channel duplicates and messages already known from a history fetch.
func (e *Engine) receive(ctx context.Context, roomID domain.RoomID, sub contract.Subscription, msg domain.Message) {
	e.mu.Lock()
	if e.sub != sub {
		e.mu.Unlock()
		return
	}
	session := e.session
	e.mu.Unlock()

	if msg.AuthorID == session.UserID {
		// The sender appended its own copy at send time.
		return
	}
	if msg.RoomID != roomID {
		return
	}
	if msg.Language != session.DisplayLanguage {
		msg.TranslatedText = e.translator.Translate(ctx, msg.Text, msg.Language, session.DisplayLanguage)
	}

	e.mu.Lock()
	if e.sub != sub {
		// Room changed while translating; drop the stale result.
		e.mu.Unlock()
		return
	}
	appended := e.timeline.Insert(msg)
	e.mu.Unlock()

	if appended {
		e.fanout(ctx, msg)
	}
}

func (e *Engine) fanout(ctx context.Context, msg domain.Message) {
	e.mu.Lock()
	sinks := make([]contract.EventSink, len(e.sinks))
	copy(sinks, e.sinks)
	e.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Consume(ctx, msg); err != nil {
			e.log.Warn("sink rejected message", "message_id", msg.ID, "error", err)
		}
	}
}

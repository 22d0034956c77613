// Package projection builds local timelines from observed messages.
// Handles ordering and deduplication for one room at a time.
// Does not emit events or interact with UI directly.
package projection

import (
	"sort"
	"sync"

	"lingua-room/domain"
)

// Timeline holds the local ordered message log for the current room.
// Ordering is (CreatedAt, ID) ascending at all times; a message id
// appears at most once regardless of how often it is inserted.
type Timeline struct {
	mu       sync.Mutex
	messages []domain.Message
	ids      map[string]struct{}
}

func NewTimeline() *Timeline {
	return &Timeline{
		ids: make(map[string]struct{}),
	}
}

// Replace swaps the whole log for a freshly fetched history.
// Safe to call repeatedly, e.g. on room switch or refresh.
func (t *Timeline) Replace(messages []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = nil
	t.ids = make(map[string]struct{})
	for _, msg := range messages {
		if _, seen := t.ids[msg.ID]; seen {
			continue
		}
		t.ids[msg.ID] = struct{}{}
		t.messages = append(t.messages, msg)
	}
	sort.SliceStable(t.messages, func(i, j int) bool {
		return t.messages[i].Less(t.messages[j])
	})
}

// Insert merges one message into the log, keeping sort order.
// A duplicate id is a no-op; the return value reports whether the
// log actually grew.
func (t *Timeline) Insert(msg domain.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.ids[msg.ID]; seen {
		return false
	}
	t.ids[msg.ID] = struct{}{}

	at := sort.Search(len(t.messages), func(i int) bool {
		return msg.Less(t.messages[i])
	})
	t.messages = append(t.messages, domain.Message{})
	copy(t.messages[at+1:], t.messages[at:])
	t.messages[at] = msg
	return true
}

// Snapshot returns a copy of the log so readers never observe a
// partially applied insert.
func (t *Timeline) Snapshot() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

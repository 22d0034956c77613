package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lingua-room/domain"
)

func message(id string, at time.Time) domain.Message {
	return domain.Message{
		ID:        id,
		RoomID:    "R1",
		AuthorID:  "alice",
		Text:      "hello",
		Language:  "en",
		CreatedAt: at,
	}
}

func TestTimeline_Insert_KeepsOrder(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	now := time.Now().UTC()

	req.True(timeline.Insert(message("b", now.Add(2*time.Second))))
	req.True(timeline.Insert(message("a", now)))
	req.True(timeline.Insert(message("c", now.Add(time.Second))))

	snapshot := timeline.Snapshot()
	req.Len(snapshot, 3)
	req.Equal("a", snapshot[0].ID)
	req.Equal("c", snapshot[1].ID)
	req.Equal("b", snapshot[2].ID)
}

func TestTimeline_Insert_DuplicateIDIsNoOp(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	now := time.Now().UTC()

	req.True(timeline.Insert(message("a", now)))
	req.False(timeline.Insert(message("a", now)))
	req.False(timeline.Insert(message("a", now.Add(time.Minute))))
	req.Equal(1, timeline.Len())
}

func TestTimeline_Insert_TieBrokenByID(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	at := time.Now().UTC()

	req.True(timeline.Insert(message("z", at)))
	req.True(timeline.Insert(message("a", at)))

	snapshot := timeline.Snapshot()
	req.Equal("a", snapshot[0].ID)
	req.Equal("z", snapshot[1].ID)
}

func TestTimeline_Replace_IsWholesaleAndIdempotent(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	now := time.Now().UTC()
	timeline.Insert(message("stale", now))

	history := []domain.Message{
		message("2", now.Add(time.Second)),
		message("1", now),
		message("2", now.Add(time.Second)),
	}
	timeline.Replace(history)
	timeline.Replace(history)

	snapshot := timeline.Snapshot()
	req.Len(snapshot, 2)
	req.Equal("1", snapshot[0].ID)
	req.Equal("2", snapshot[1].ID)

	// A message known from the fetch must not be appended twice.
	req.False(timeline.Insert(message("2", now.Add(time.Second))))
	req.Equal(2, timeline.Len())
}

func TestTimeline_Snapshot_IsACopy(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	timeline.Insert(message("a", time.Now().UTC()))

	snapshot := timeline.Snapshot()
	snapshot[0].Text = "mutated"
	req.Equal("hello", timeline.Snapshot()[0].Text)
}

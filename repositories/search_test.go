package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	db "github.com/mama165/sdk-go/database"
	"github.com/stretchr/testify/require"

	"lingua-room/domain"
	"lingua-room/domain/search"
)

func Test_Search_FindsIndexedMessages(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewSearchRepository(blugeWriter, log, 10)
	now := time.Now().UTC()

	msg := domain.Message{
		ID:        uuid.NewString(),
		RoomID:    "R1",
		AuthorID:  "alice",
		Text:      "the invoice for the postgres migration",
		Language:  "en",
		CreatedAt: now,
	}
	req.NoError(repo.Consume(ctx, msg))
	req.NoError(repo.Consume(ctx, domain.Message{
		ID:        uuid.NewString(),
		RoomID:    "R1",
		AuthorID:  "bob",
		Text:      "lunch plans",
		Language:  "en",
		CreatedAt: now.Add(time.Second),
	}))

	hits, err := repo.Search(ctx, search.NewQuery("invoice"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(msg.ID, hits[0].ID)
	req.Equal("alice", hits[0].AuthorID)
	req.Equal("R1", hits[0].RoomID)
}

func Test_Search_FiltersByAuthorAndLanguage(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewSearchRepository(blugeWriter, log, 10)
	now := time.Now().UTC()
	for i, m := range []struct {
		author, text, lang string
	}{
		{"alice", "deploy the service tonight", "en"},
		{"bob", "deploy demain matin", "fr"},
	} {
		req.NoError(repo.Consume(ctx, domain.Message{
			ID:        uuid.NewString(),
			RoomID:    "R1",
			AuthorID:  m.author,
			Text:      m.text,
			Language:  m.lang,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	hits, err := repo.Search(ctx, search.NewQuery("deploy --lang fr"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("bob", hits[0].AuthorID)

	hits, err = repo.Search(ctx, search.NewQuery("deploy --author alice"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("alice", hits[0].AuthorID)
}

func Test_Search_ReindexingSameIDIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewSearchRepository(blugeWriter, log, 10)
	msg := domain.Message{
		ID:        uuid.NewString(),
		RoomID:    "R1",
		AuthorID:  "alice",
		Text:      "duplicate delivery",
		Language:  "en",
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repo.Consume(ctx, msg))
	req.NoError(repo.Consume(ctx, msg))

	hits, err := repo.Search(ctx, search.NewQuery("duplicate"))
	req.NoError(err)
	req.Len(hits, 1)
}

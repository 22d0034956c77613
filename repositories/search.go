package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"

	"lingua-room/domain"
	"lingua-room/domain/search"
)

// SearchRepository maintains a Bluge full-text index over the local
// room log. It consumes appended messages as an engine sink, so the
// index mirrors exactly what the viewer has seen.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger, limit int) *SearchRepository {
	return &SearchRepository{writer: writer, log: log, limit: limit}
}

// Hit is one search result, rebuilt from stored fields.
type Hit struct {
	ID       string
	RoomID   string
	AuthorID string
	Text     string
	Language string
	At       time.Time
}

// Consume indexes one appended message. Updating by id makes replayed
// history fetches and channel duplicates idempotent.
func (r *SearchRepository) Consume(_ context.Context, msg domain.Message) error {
	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewTextField("text", msg.Text).StoreValue()).
		AddField(bluge.NewKeywordField("room", string(msg.RoomID)).StoreValue()).
		AddField(bluge.NewKeywordField("author", msg.AuthorID).StoreValue()).
		AddField(bluge.NewKeywordField("lang", msg.Language).StoreValue()).
		AddField(bluge.NewKeywordField("at", msg.CreatedAt.UTC().Format(time.RFC3339Nano)).StoreValue())
	return r.writer.Update(doc.ID(), doc)
}

// Search runs a parsed query against the index.
func (r *SearchRepository) Search(ctx context.Context, query *search.Query) ([]Hit, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("text"))
	if query.RoomID != "" {
		boolean.AddMust(bluge.NewTermQuery(query.RoomID).SetField("room"))
	}
	if query.Author != "" {
		boolean.AddMust(bluge.NewTermQuery(query.Author).SetField("author"))
	}
	if query.Language != "" {
		boolean.AddMust(bluge.NewTermQuery(query.Language).SetField("lang"))
	}

	limit := query.Limit
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "text":
				hit.Text = string(value)
			case "room":
				hit.RoomID = string(value)
			case "author":
				hit.AuthorID = string(value)
			case "lang":
				hit.Language = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if visitErr != nil {
			r.log.Warn("skipping unreadable search hit", "error", visitErr)
		} else {
			hits = append(hits, hit)
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}

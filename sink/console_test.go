package sink

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lingua-room/domain"
)

func TestConsoleSink_ShowsTranslationWithOriginal(t *testing.T) {
	req := require.New(t)
	var out strings.Builder
	consoleSink := NewConsoleSink(&out, "me", false)

	err := consoleSink.Consume(context.Background(), domain.Message{
		ID:             "1",
		RoomID:         "R1",
		AuthorID:       "peer-user-1234",
		Text:           "Hola",
		Language:       "es",
		TranslatedText: "Hello",
		CreatedAt:      time.Now(),
	})
	req.NoError(err)
	req.Contains(out.String(), "Hello")
	req.Contains(out.String(), "(es: Hola)")
	req.Contains(out.String(), "peer-use")
}

func TestConsoleSink_PlainForOwnLanguage(t *testing.T) {
	req := require.New(t)
	var out strings.Builder
	consoleSink := NewConsoleSink(&out, "me", false)

	err := consoleSink.Consume(context.Background(), domain.Message{
		ID: "1", RoomID: "R1", AuthorID: "me", Text: "Hello", Language: "en", CreatedAt: time.Now(),
	})
	req.NoError(err)
	req.Contains(out.String(), "Hello")
	req.NotContains(out.String(), "(")
}

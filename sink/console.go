package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/gookit/color"

	"lingua-room/domain"
)

// ConsoleSink renders appended messages as they arrive. Foreign
// messages that carry a translation show the original in parentheses.
type ConsoleSink struct {
	out     io.Writer
	ownUser string
	colours bool
}

func NewConsoleSink(out io.Writer, ownUser string, colours bool) *ConsoleSink {
	return &ConsoleSink{out: out, ownUser: ownUser, colours: colours}
}

func (c *ConsoleSink) Consume(_ context.Context, msg domain.Message) error {
	author := shortID(msg.AuthorID)
	line := fmt.Sprintf("[%s] %s: %s", msg.CreatedAt.Local().Format("15:04:05"), author, msg.DisplayText())
	if msg.TranslatedText != "" && msg.TranslatedText != msg.Text {
		line = fmt.Sprintf("%s (%s: %s)", line, msg.Language, msg.Text)
	}

	if c.colours {
		if msg.AuthorID == c.ownUser {
			line = color.New(color.FgCyan).Render(line)
		} else {
			line = color.New(color.FgGreen).Render(line)
		}
	}
	_, err := fmt.Fprintln(c.out, line)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

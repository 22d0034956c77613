// Package domain contains core concepts of the multilingual chat system.
// This file defines Message values and their ordering rules.
// Messages are immutable once minted by the durable store.
package domain

import (
	"time"
)

// Message represents an immutable chat event.
// TranslatedText is a viewer-local enrichment attached by the receiving
// engine; it is never written back to the durable store or broadcast.
type Message struct {
	ID             string
	RoomID         RoomID
	AuthorID       string
	Text           string
	Language       string
	TranslatedText string
	CreatedAt      time.Time
}

// Less defines the display total order: CreatedAt ascending,
// ties broken by lexical ID order so every replica sorts identically.
func (m Message) Less(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}

// DisplayText returns what the viewer should read: the local translation
// when one was attached, the original text otherwise.
func (m Message) DisplayText() string {
	if m.TranslatedText != "" {
		return m.TranslatedText
	}
	return m.Text
}

// Draft is a message before the durable store minted its ID and CreatedAt.
type Draft struct {
	RoomID   RoomID `validate:"required"`
	AuthorID string `validate:"required"`
	Text     string `validate:"required,max=2000"`
	Language string `validate:"required,bcp47_language_tag"`
}

package search

import (
	"strconv"
	"strings"
)

// Query represents the structured parameters for a history search.
// It decouples the raw chat input from the index engine requirements.
type Query struct {
	RawInput string // The original line typed by the user
	Terms    string // The actual text to match against message bodies
	Author   string // Restrict to one author id
	Language string // Restrict to one original language
	RoomID   string // Target room
	Limit    int    // Number of results
}

// NewQuery parses a raw string to extract command-line style arguments.
// Example: /find "invoice" --lang fr --author bf31 --limit 5
func NewQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    10, // Default limit
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		// Handle flags like --lang fr or --limit 5
		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "author":
				query.Author = val
			case "lang":
				query.Language = val
			case "room":
				query.RoomID = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		// If it's not a flag, it's a search term
		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, strings.Trim(part, `"`))
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}

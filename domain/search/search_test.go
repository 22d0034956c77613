package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	req := require.New(t)

	query := NewQuery(`/find "invoice" tax --lang fr --author bf31 --limit 5`)
	req.Equal("invoice tax", query.Terms)
	req.Equal("fr", query.Language)
	req.Equal("bf31", query.Author)
	req.Equal(5, query.Limit)
}

func TestNewQuery_Defaults(t *testing.T) {
	req := require.New(t)

	query := NewQuery("hello world")
	req.Equal("hello world", query.Terms)
	req.Empty(query.Author)
	req.Empty(query.Language)
	req.Equal(10, query.Limit)
}

func TestNewQuery_IgnoresBadLimit(t *testing.T) {
	req := require.New(t)
	req.Equal(10, NewQuery("x --limit nope").Limit)
	req.Equal(10, NewQuery("x --limit -3").Limit)
}

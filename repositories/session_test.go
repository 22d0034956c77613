package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lingua-room/domain"
)

func Test_Session_RoundTrip(t *testing.T) {
	req := require.New(t)
	repository := NewSessionRepository(openTestDB(t))

	session := domain.Session{UserID: "u-1", RoomID: "R1", DisplayLanguage: "es"}
	req.NoError(repository.Save(session))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal(session, loaded)
}

func Test_Session_MissingRecordYieldsZeroSession(t *testing.T) {
	req := require.New(t)
	repository := NewSessionRepository(openTestDB(t))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal(domain.Session{}, loaded)
}

func Test_Session_SaveOverwrites(t *testing.T) {
	req := require.New(t)
	repository := NewSessionRepository(openTestDB(t))

	req.NoError(repository.Save(domain.Session{UserID: "u-1", DisplayLanguage: "en"}))
	req.NoError(repository.Save(domain.Session{UserID: "u-1", RoomID: "R2", DisplayLanguage: "fr"}))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal(domain.RoomID("R2"), loaded.RoomID)
	req.Equal("fr", loaded.DisplayLanguage)
}

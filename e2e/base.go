package e2e

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"lingua-room/infrastructure/ws"
	"lingua-room/repositories"
	"lingua-room/runtime"
	"lingua-room/translation"
)

// BaseSuite wires one full engine per participant against the real
// relay and translation endpoints named by the environment.
type BaseSuite struct {
	suite.Suite
	Config Config
	log    *slog.Logger
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if !s.Config.Enabled {
		s.T().Skip("E2E_ENABLED is not set; skipping live end-to-end suite")
	}
	s.log = logs.GetLoggerFromLevel(slog.LevelDebug)
}

// NewParticipant builds an engine with its own throwaway local state,
// speaking the given display language.
func (s *BaseSuite) NewParticipant(name, language string) *runtime.Engine {
	header := fmt.Sprintf("  ====== %s (%s) ======", name, language)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })

	engine, err := runtime.NewEngine(
		s.log,
		repositories.NewMessageRepository(db, s.log),
		ws.NewChannel(s.log, s.Config.ChannelURL, s.Config.APIKey, 64),
		translation.NewClient(s.log, s.Config.TranslationEndpoint, 10*time.Second),
		repositories.NewSessionRepository(db),
	)
	s.Require().NoError(err)
	s.Require().NoError(engine.SetDisplayLanguage(language))
	s.T().Cleanup(engine.Leave)
	return engine
}

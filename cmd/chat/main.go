package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"lingua-room/contract"
	"lingua-room/domain"
	"lingua-room/domain/search"
	"lingua-room/infrastructure/storage"
	"lingua-room/infrastructure/ws"
	"lingua-room/internal"
	"lingua-room/repositories"
	"lingua-room/runtime"
	"lingua-room/sink"
	"lingua-room/translation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, drives the session, and centralizes
// error reporting so deferred cleanup always executes before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Local databases (BadgerDB for identity, Bluge for search)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Durable store: shared Postgres when configured, embedded
	// Badger otherwise.
	var store contract.MessageStore
	if config.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, config.PostgresURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()
		store = storage.NewPostgresMessageStore(pool)
	} else {
		store = repositories.NewMessageRepository(db, log)
	}

	// 5. Collaborators & Engine
	channel := ws.NewChannel(log, config.ChannelURL, config.ChannelAPIKey, config.DeliveryBufferSize)
	translator := translation.NewClient(log, config.TranslationEndpoint, config.TranslationTimeout)
	sessions := repositories.NewSessionRepository(db)

	engine, err := runtime.NewEngine(log, store, channel, translator, sessions)
	if err != nil {
		return fmt.Errorf("engine setup failed: %w", err)
	}
	defer engine.Leave()

	if config.DisplayLanguage != "" {
		if err = engine.SetDisplayLanguage(config.DisplayLanguage); err != nil {
			return err
		}
	}

	searchRepository := repositories.NewSearchRepository(blugeWriter, log, config.SearchLimit)
	engine.RegisterSink(
		searchRepository,
		sink.NewConsoleSink(os.Stdout, engine.Session().UserID, true),
	)

	// 6. Resume the previous room, if any
	session := engine.Session()
	color.Infoln("You are", session.UserID[:8], "speaking", session.DisplayLanguage)
	if session.RoomID != "" {
		if err = engine.Join(ctx, session.RoomID); err != nil {
			log.Warn("could not rejoin previous room", "room", session.RoomID, "error", err)
		}
	}

	// 7. Drive the session from stdin until interrupted
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully...")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err = handle(ctx, engine, searchRepository, line); err != nil {
				color.Errorln(err.Error())
			}
		}
	}
}

// handle maps one input line onto an engine operation: /new and /join
// manage the room, /lang the display language, /find the local search,
// /log the transcript; everything else is sent as a message.
func handle(ctx context.Context, engine *runtime.Engine, searchRepository *repositories.SearchRepository, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch {
	case line == "/new":
		code := domain.NormalizeRoomCode(uuid.NewString()[:6])
		color.Infoln("Room code:", string(code))
		return engine.Join(ctx, code)
	case strings.HasPrefix(line, "/join "):
		return engine.Join(ctx, domain.NormalizeRoomCode(strings.TrimPrefix(line, "/join ")))
	case strings.HasPrefix(line, "/lang "):
		return engine.SetDisplayLanguage(strings.TrimSpace(strings.TrimPrefix(line, "/lang ")))
	case line == "/refresh":
		return engine.Refresh(ctx)
	case strings.HasPrefix(line, "/find"):
		return find(ctx, engine, searchRepository, line)
	case line == "/log":
		renderTranscript(engine)
		return nil
	case strings.HasPrefix(line, "/"):
		return fmt.Errorf("unknown command %q", strings.Fields(line)[0])
	default:
		_, err := engine.Send(ctx, line, "")
		return err
	}
}

func find(ctx context.Context, engine *runtime.Engine, searchRepository *repositories.SearchRepository, line string) error {
	query := search.NewQuery(line)
	if query.RoomID == "" {
		query.RoomID = string(engine.Session().RoomID)
	}
	hits, err := searchRepository.Search(ctx, query)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		color.Infoln(hit.At.Local().Format("15:04:05"), hit.AuthorID[:8], hit.Text)
	}
	if len(hits) == 0 {
		color.Infoln("no matches")
	}
	return nil
}

func renderTranscript(engine *runtime.Engine) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Author", "Lang", "Text"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	own := engine.Session().UserID
	for _, msg := range engine.Messages() {
		author := msg.AuthorID
		if len(author) > 8 {
			author = author[:8]
		}
		if msg.AuthorID == own {
			author = "you"
		}
		table.Append([]string{
			msg.CreatedAt.Local().Format("15:04:05"),
			author,
			msg.Language,
			msg.DisplayText(),
		})
	}
	table.Render()
}

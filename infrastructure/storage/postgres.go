// Package storage provides the Postgres-backed durable store.
//
// Expected schema:
//
//	CREATE TABLE messages (
//	    id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    room_id    text NOT NULL,
//	    user_id    text NOT NULL,
//	    text       text NOT NULL,
//	    language   text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE INDEX messages_room_order ON messages (room_id, created_at, id);
package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lingua-room/domain"
)

type PostgresMessageStore struct {
	db *pgxpool.Pool
}

func NewPostgresMessageStore(db *pgxpool.Pool) *PostgresMessageStore {
	return &PostgresMessageStore{db: db}
}

// Insert persists a draft; id and created_at are minted by the
// database so client clocks never enter the ordering contract.
func (s *PostgresMessageStore) Insert(ctx context.Context, draft domain.Draft) (domain.Message, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (room_id, user_id, text, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room_id, user_id, text, language, created_at
	`, draft.RoomID, draft.AuthorID, draft.Text, draft.Language)

	var m domain.Message
	if err := row.Scan(&m.ID, &m.RoomID, &m.AuthorID, &m.Text, &m.Language, &m.CreatedAt); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

// History returns the full room log in display order.
func (s *PostgresMessageStore) History(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, room_id, user_id, text, language, created_at
		FROM messages
		WHERE room_id = $1
		ORDER BY created_at ASC, id ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.AuthorID, &m.Text, &m.Language, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

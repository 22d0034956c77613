package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"lingua-room/domain"
)

const sessionKey = "session:current"

// SessionRepository persists the local identity (user id, last room,
// display language) in BadgerDB across restarts.
type SessionRepository struct {
	db *badger.DB
}

func NewSessionRepository(db *badger.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load reads the stored session. A missing record yields a zero
// session; the engine mints the identity and saves it back.
func (r *SessionRepository) Load() (domain.Session, error) {
	var session domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) Save(session domain.Session) error {
	bytes, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKey), bytes)
	})
}

package session

import (
	"context"
	"database/sql"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

const (
	getSessionQuery = `
        SELECT data FROM sessions WHERE session_id = $1
    `
	upsertSessionQuery = `
        INSERT INTO sessions (session_id, data, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (session_id) DO UPDATE SET data = $2, updated_at = $3
    `
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (st *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	var raw []byte
	err := st.db.QueryRowContext(ctx, getSessionQuery, id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return New(id), nil
		}
		return nil, err
	}

	s := New(id)
	if err := s.Decode(raw); err != nil {
		return New(id), nil
	}
	return s, nil
}

func (st *PostgresStore) Save(ctx context.Context, s *Session) error {
	raw, err := s.Encode()
	if err != nil {
		return err
	}
	_, err = st.db.ExecContext(ctx, upsertSessionQuery, s.ID, raw, time.Now().UTC())
	return err
}

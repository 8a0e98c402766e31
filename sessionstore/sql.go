// File: sessionstore/sql.go
package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"car-showcase/models"
)

var _ Store = (*SQL)(nil)

var sessionSchema = map[string]string{
	"postgres": `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	"sqlite3": `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
}

// SQL stores sessions in a table that lives beside the entity tables.
// The handle is shared with the entity store, so Close does not close it.
type SQL struct {
	db   *sql.DB
	opts options
}

// NewSQL creates the sessions table when missing. driver is "postgres" or "sqlite3".
func NewSQL(ctx context.Context, db *sql.DB, driver string, opts ...Option) (*SQL, error) {
	ddl, ok := sessionSchema[driver]
	if !ok {
		return nil, fmt.Errorf("session store: unsupported driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)"); err != nil {
		return nil, fmt.Errorf("create sessions index: %w", err)
	}
	return &SQL{db: db, opts: buildOptions(opts)}, nil
}

func (s *SQL) Create(ctx context.Context, userID int64) (models.Session, error) {
	sess := s.opts.newSession(userID)
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)",
		sess.ID, sess.UserID, sess.ExpiresAt); err != nil {
		return models.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *SQL) Get(ctx context.Context, id string) (models.Session, bool, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at FROM sessions WHERE id = $1", id).
		Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, err
	}
	sess.ExpiresAt = sess.ExpiresAt.UTC()
	if sess.Expired(s.opts.now()) {
		if err := s.Destroy(ctx, id); err != nil {
			return models.Session{}, false, err
		}
		return models.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *SQL) Destroy(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQL) Sweep(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= $1", s.opts.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQL) Close() error { return nil }

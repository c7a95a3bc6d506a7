// Package credstore persists the session credentials (token + user) to a
// local SQLite database so a restart can rehydrate the session without
// re-authenticating.
//
// WHY SQLITE FOR A TWO-COLUMN STORE?
// The credentials survive process restarts and are shared by every droplog
// process on the machine. SQLite's WAL mode gives us atomic last-write-wins
// semantics across concurrent processes for free; two instances signing in
// as different users simply race, and the later write fully replaces the
// earlier one. A plain file would need our own locking to get the same
// guarantee.
//
// We use modernc.org/sqlite (pure Go translation of SQLite) rather than
// mattn/go-sqlite3, so no C compiler is needed and cross-compilation works.
//
// ACCESS POLICY: only the api gateway and the session store touch this
// package. Resource services and UI code go through those two.
package credstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/droplog/internal/model"
)

// Store owns the credentials database. Safe for concurrent use; all
// coordination is delegated to SQLite itself.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the credentials database at path.
// Use ":memory:" in tests for a throwaway store.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("credstore: opening database: %w", err)
	}

	// Force a real connection now so a bad path surfaces here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("credstore: pinging database: %w", err)
	}

	// WAL mode: concurrent readers don't block the writer. This is what
	// makes the cross-process last-write-wins policy safe.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("credstore: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("credstore: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection pool. Always defer Close after a
// successful Open.
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates the credentials table.
//
// The CHECK (id = 1) constraint pins the table to a single row: every Save
// is an upsert against id 1, so there is never a stale second credential
// lying around.
func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			token      TEXT NOT NULL,
			user_json  TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating credentials table: %w", err)
	}
	return nil
}

// Save persists the token and user, fully replacing whatever was stored
// before (last-write-wins, including across processes).
func (s *Store) Save(token string, user *model.User) error {
	if token == "" {
		return fmt.Errorf("credstore: token must not be empty")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credstore: encoding user: %w", err)
	}

	_, err = s.conn.Exec(`
		INSERT INTO credentials (id, token, user_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token      = excluded.token,
			user_json  = excluded.user_json,
			updated_at = excluded.updated_at
	`, token, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("credstore: saving credentials: %w", err)
	}
	return nil
}

// Load returns the persisted token and user. ok is false when nothing is
// stored; that is the normal first-run state, not an error.
func (s *Store) Load() (token string, user *model.User, ok bool, err error) {
	var userJSON string
	row := s.conn.QueryRow(`SELECT token, user_json FROM credentials WHERE id = 1`)
	if err := row.Scan(&token, &userJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, false, nil
		}
		return "", nil, false, fmt.Errorf("credstore: loading credentials: %w", err)
	}

	user = &model.User{}
	if err := json.Unmarshal([]byte(userJSON), user); err != nil {
		// A corrupt row is as good as no row. Clear it so the next
		// Initialize settles cleanly into the unauthenticated state.
		_ = s.Clear()
		return "", nil, false, nil
	}
	return token, user, true, nil
}

// Token returns just the persisted token, or "" when absent. This is the
// fast path used by the api gateway on every request.
func (s *Store) Token() string {
	var token string
	row := s.conn.QueryRow(`SELECT token FROM credentials WHERE id = 1`)
	if err := row.Scan(&token); err != nil {
		return ""
	}
	return token
}

// Clear removes the persisted credentials. Idempotent; clearing an empty
// store is a no-op.
func (s *Store) Clear() error {
	if _, err := s.conn.Exec(`DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("credstore: clearing credentials: %w", err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

const (
	keyUserID = "user_id"
	keyToken  = "token"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_cache (
    query      TEXT NOT NULL,
    page       INTEGER NOT NULL,
    payload    TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL,
    PRIMARY KEY (query, page)
);`

// Session is the authenticated identity carried across app restarts. It is
// constructed once at startup and injected into every component that calls
// the portal, never re-read ad hoc.
type Session struct {
	UserID int
	Token  string
}

// Store persists login state and a small catalog cache in an on-device
// sqlite database. Only login and logout write the session rows.
type Store struct {
	db *sqlx.DB

	mu      sync.RWMutex
	current *Session
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle; the schema is assumed present.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLogin stores the identity from a successful login.
func (s *Store) SaveLogin(userID int, token string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	const upsert = `INSERT INTO session (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keyUserID, strconv.Itoa(userID)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save user id: %w", err)
	}
	if _, err := tx.Exec(upsert, keyToken, token); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session write: %w", err)
	}

	s.mu.Lock()
	s.current = &Session{UserID: userID, Token: token}
	s.mu.Unlock()
	return nil
}

// Current returns the persisted session, or ErrNoSession when nobody is
// logged in.
func (s *Store) Current() (*Session, error) {
	s.mu.RLock()
	if s.current != nil {
		sess := *s.current
		s.mu.RUnlock()
		return &sess, nil
	}
	s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT key, value FROM session`)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	rawID, okID := values[keyUserID]
	token, okToken := values[keyToken]
	if !okID || !okToken || token == "" {
		return nil, appErrors.ErrNoSession
	}
	userID, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNoSession, "stored session is corrupt")
	}

	sess := &Session{UserID: userID, Token: token}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	copied := *sess
	return &copied, nil
}

// Clear removes the persisted session at logout.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// Token implements portal.TokenSource.
func (s *Store) Token() string {
	sess, err := s.Current()
	if err != nil {
		return ""
	}
	return sess.Token
}

// CacheCatalogPage stores one fetched catalog page for offline display.
func (s *Store) CacheCatalogPage(query string, page int, sections []models.Section) error {
	payload, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode catalog page: %w", err)
	}
	const upsert = `INSERT INTO catalog_cache (query, page, payload, fetched_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(query, page) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`
	if _, err := s.db.Exec(upsert, query, page, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("cache catalog page: %w", err)
	}
	return nil
}

// CachedCatalogPage returns a previously cached page no older than maxAge.
func (s *Store) CachedCatalogPage(query string, page int, maxAge time.Duration) ([]models.Section, bool) {
	var row struct {
		Payload   string    `db:"payload"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.Get(&row, `SELECT payload, fetched_at FROM catalog_cache WHERE query = ? AND page = ?`, query, page)
	if err != nil {
		return nil, false
	}
	if maxAge > 0 && time.Since(row.FetchedAt) > maxAge {
		return nil, false
	}
	var sections []models.Section
	if err := json.Unmarshal([]byte(row.Payload), &sections); err != nil {
		return nil, false
	}
	return sections, true
}

// Package querylog persists served DNS queries to SQLite for later
// inspection through the management API.
//
// The schema is versioned with embedded golang-migrate migrations, applied
// on Open. The store is append-mostly: the server inserts one row per
// served query and the API reads recent rows.
package querylog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Entry is one served query.
type Entry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Client    string    `json:"client"`
	QName     string    `json:"qname"`
	QType     uint16    `json:"qtype"`
	RCode     uint8     `json:"rcode"`
	Duration  float64   `json:"duration_ms"`
}

// Store wraps a SQLite database holding the query log.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex // serializes inserts; SQLite allows one writer
}

// Open opens or creates the query log database at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	// WAL keeps reads (the API) from blocking behind inserts.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate query log: %w", err)
	}

	return &Store{conn: conn}, nil
}

func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Insert records one served query.
func (s *Store) Insert(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.conn.Exec(
		`INSERT INTO queries (created_at, client, qname, qtype, rcode, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt, e.Client, e.QName, e.QType, e.RCode, e.Duration,
	)
	if err != nil {
		return fmt.Errorf("insert query log entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.conn.Query(
		`SELECT id, created_at, client, qname, qtype, rcode, duration_ms
		 FROM queries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Client, &e.QName, &e.QType, &e.RCode, &e.Duration); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the total number of logged queries.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&n)
	return n, err
}

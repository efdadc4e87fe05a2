// Package journal keeps an optional SQLite audit trail of submitted commands.
//
// The journal is write-mostly and never feeds the in-memory recall history;
// it exists so a session's commands and their acknowledgements can be
// inspected afterwards with `gameconsole journal`.
package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Journal handles SQLite persistence. Safe for concurrent use.
type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

// Entry is one submitted command and its outcome.
type Entry struct {
	ID           int64
	Command      string
	Acknowledged bool
	Error        string // empty when acknowledged
	SubmittedAt  time.Time
	AnsweredAt   time.Time
}

// Open creates or opens the journal at path. ":memory:" is accepted for tests.
func Open(path string) (*Journal, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	j := &Journal{db: db}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		acknowledged INTEGER NOT NULL,
		error TEXT,
		submitted_at DATETIME NOT NULL,
		answered_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_submitted ON commands(submitted_at DESC);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Record stores e and returns its row ID.
func (j *Journal) Record(e Entry) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	res, err := j.db.Exec(`
		INSERT INTO commands (command, acknowledged, error, submitted_at, answered_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.Command, e.Acknowledged, e.Error, e.SubmittedAt.UTC(), e.AnsweredAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert command: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(`
		SELECT id, command, acknowledged, COALESCE(error, ''), submitted_at, answered_at
		FROM commands
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Command, &e.Acknowledged, &e.Error, &e.SubmittedAt, &e.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

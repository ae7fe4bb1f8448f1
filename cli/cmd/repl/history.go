package repl

import (
	"database/sql"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // register the "sqlite" driver
)

// baseHistory is the file name of the history database in the cache
// directory.
const baseHistory = "history.db"

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is the list of submitted lines, oldest first. A line submitted
// again in the same mode moves to the end.
//
// A History opened with [OpenHistory] is persisted in a SQLite database.
type History struct {
	mu      sync.Mutex
	db      *sql.DB
	entries []HistoryEntry
}

// NewHistory returns an empty History that is not persisted.
func NewHistory() *History {
	return &History{}
}

// OpenHistory opens or creates the history database at path and loads its
// entries.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			line TEXT    NOT NULL,
			mode INTEGER NOT NULL,
			UNIQUE (line, mode)
		);
	`)
	if err != nil {
		db.Close()

		return nil, err
	}

	h := &History{db: db}

	if err := h.load(); err != nil {
		db.Close()

		return nil, err
	}

	return h, nil
}

func (h *History) load() error {
	rows, err := h.db.Query(`SELECT line, mode FROM history ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Line, &e.Mode); err != nil {
			return err
		}

		h.entries = append(h.entries, e)
	}

	return rows.Err()
}

// WriteWithMode appends a new entry to the history with the specified mode.
// If a duplicate entry exists (same line and mode), it removes the old one.
func (h *History) WriteWithMode(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Skip if same as last entry (both line and mode)
	if n := len(h.entries); n > 0 && h.entries[n-1] == (HistoryEntry{line, mode}) {
		return nil
	}

	for i, e := range h.entries {
		if e.Line == line && e.Mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			break
		}
	}

	h.entries = append(h.entries, HistoryEntry{Line: line, Mode: mode})

	if h.db == nil {
		return nil
	}

	tx, err := h.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM history WHERE line = ? AND mode = ?`, line, mode)
	if err == nil {
		_, err = tx.Exec(`INSERT INTO history (line, mode) VALUES (?, ?)`, line, mode)
	}

	if err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

// GetEntry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Close closes the database, if any.
func (h *History) Close() error {
	if h.db == nil {
		return nil
	}

	return h.db.Close()
}

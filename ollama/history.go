package ollama

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Message roles stored in the history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// Message is one line of the local chat transcript.
type Message struct {
	ID        int64
	Role      string
	Model     string
	Content   string
	CreatedAt time.Time
}

// History persists the chat transcript in a SQLite file.
type History struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	role       TEXT    NOT NULL,
	model      TEXT    NOT NULL DEFAULT '',
	content    TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS messages_created_at ON messages (created_at);
`

// OpenHistory opens, creating if needed, the history database at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Append stores m and returns its id. A zero CreatedAt is set to now.
func (h *History) Append(ctx context.Context, m Message) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO messages (role, model, content, created_at) VALUES (?, ?, ?, ?)`,
		m.Role, m.Model, m.Content, m.CreatedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to append message: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit of the newest messages, oldest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, role, model, content, created_at FROM (
			SELECT * FROM messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var created int64
		if err := rows.Scan(&m.ID, &m.Role, &m.Model, &m.Content, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(0, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Clear deletes every message.
func (h *History) Clear(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coderefine/coderefine/internal/model"
)

// Fixed-width fraction keeps lexicographic order chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id            TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	language      TEXT NOT NULL,
	original_code TEXT NOT NULL,
	result        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reviews_created_at ON reviews (created_at);
`

// Store persists history items in a SQLite database. Persistence is
// optional; an empty path in the config keeps history in memory only.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the review database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save appends one item.
func (s *Store) Save(ctx context.Context, item Item) error {
	result, err := json.Marshal(item.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, created_at, language, original_code, result) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Timestamp.UTC().Format(timeLayout), item.Language, item.OriginalCode, string(result))
	if err != nil {
		return fmt.Errorf("saving review: %w", err)
	}
	return nil
}

// Recent returns up to limit items, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, language, original_code, result FROM reviews ORDER BY created_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var createdAt, result string
		if err := rows.Scan(&item.ID, &createdAt, &item.Language, &item.OriginalCode, &result); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		item.Timestamp, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing review timestamp: %w", err)
		}
		var rr model.ReviewResult
		if err := json.Unmarshal([]byte(result), &rr); err != nil {
			return nil, fmt.Errorf("decoding review result: %w", err)
		}
		item.Result = rr
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

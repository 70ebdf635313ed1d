package server

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nutragenie/nutragenie/internal/remote"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned for ids that cannot appear in a URL path.
	ErrInvalidID = errors.New("invalid record id")
)

// Repository stores user records in SQLite. Fields are kept as one JSON
// column; a post merges its fields into the stored ones.
type Repository struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string) (*Repository, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// ":memory:" databases are per connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repository{conn: conn, now: time.Now}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.conn.Close()
}

// Upsert merges rec into the stored record with the same id, creating it when
// absent. A record without an id gets a new one. It reports whether the
// record was created.
func (r *Repository) Upsert(ctx context.Context, rec remote.Record) (remote.Record, bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if len(rec.ID) > 64 || strings.ContainsAny(rec.ID, "/ ") {
		return remote.Record{}, false, fmt.Errorf("%w: %q", ErrInvalidID, rec.ID)
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return remote.Record{}, false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	existing, err := getTx(ctx, tx, rec.ID)
	created := errors.Is(err, ErrNotFound)
	if err != nil && !created {
		return remote.Record{}, false, err
	}

	merged := existing
	merged.ID = rec.ID
	if merged.Fields == nil {
		merged.Fields = make(map[string]string, len(rec.Fields))
	}
	for k, v := range rec.Fields {
		merged.Fields[k] = v
	}
	merged.UpdatedAt = r.now().UTC()
	if rec.UpdatedAt.After(merged.UpdatedAt) {
		merged.UpdatedAt = rec.UpdatedAt.UTC()
	}

	fields, err := json.Marshal(merged.Fields)
	if err != nil {
		return remote.Record{}, false, fmt.Errorf("marshal fields: %w", err)
	}
	stamp := merged.UpdatedAt.Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, fields, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`,
		merged.ID, string(fields), stamp, stamp)
	if err != nil {
		return remote.Record{}, false, fmt.Errorf("upsert %s: %w", merged.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return remote.Record{}, false, fmt.Errorf("commit: %w", err)
	}
	return merged, created, nil
}

// Get returns the record with id.
func (r *Repository) Get(ctx context.Context, id string) (remote.Record, error) {
	return getTx(ctx, r.conn, id)
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTx(ctx context.Context, q queryer, id string) (remote.Record, error) {
	var fields, updated string
	err := q.QueryRowContext(ctx, `SELECT fields, updated_at FROM users WHERE id = ?`, id).Scan(&fields, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return remote.Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	rec := remote.Record{ID: id}
	if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
		return remote.Record{}, fmt.Errorf("decode fields of %s: %w", id, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		rec.UpdatedAt = t
	}
	return rec, nil
}

// Package store is a sqlite-backed item provider for virtualized lists.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/pressly/goose/v3"

	"github.com/charmbracelet/virtualize/internal/virtualize"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one row of the list.
type Entry struct {
	Seq       int64
	ID        string
	Title     string
	CreatedAt int64
}

func (e Entry) String() string {
	return e.Title
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	slog.Debug("Database ready", "path", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Append adds one entry at the end of the list.
func (s *Store) Append(ctx context.Context, title string) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().Unix(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, title, created_at) VALUES (?, ?, ?)`,
		e.ID, e.Title, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("failed to read entry id: %w", err)
	}
	return e, nil
}

// Seed appends n generated entries in one transaction.
func (s *Store) Seed(ctx context.Context, n int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var start int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&start); err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (id, title, created_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i := range n {
		title := fmt.Sprintf("Entry %d", start+i+1)
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), title, now); err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", start+i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	slog.Info("Seeded entries", "count", n)
	return nil
}

// Fetch implements virtualize.Source. The page and the total are read in
// the same transaction so they agree with each other.
func (s *Store) Fetch(ctx context.Context, req virtualize.Request) (virtualize.Result[Entry], error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return virtualize.Result[Entry]{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&total); err != nil {
		return virtualize.Result[Entry]{}, fmt.Errorf("failed to count entries: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT seq, id, title, created_at FROM entries ORDER BY seq LIMIT ? OFFSET ?`,
		req.Count, req.Start,
	)
	if err != nil {
		return virtualize.Result[Entry]{}, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	items := make([]Entry, 0, req.Count)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.ID, &e.Title, &e.CreatedAt); err != nil {
			return virtualize.Result[Entry]{}, fmt.Errorf("failed to scan entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return virtualize.Result[Entry]{}, fmt.Errorf("failed to read entries: %w", err)
	}
	return virtualize.Result[Entry]{Items: items, TotalCount: total}, nil
}

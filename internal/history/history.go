// File path: internal/history/history.go
package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

// Record is one completed draft, persisted for the workspace's trail.
type Record struct {
	ID          int64     `db:"id" json:"id"`
	RequestID   string    `db:"request_id" json:"request_id"`
	Workspace   string    `db:"workspace" json:"workspace"`
	Provider    string    `db:"provider" json:"provider"`
	Model       string    `db:"model" json:"model"`
	DocType     string    `db:"doc_type" json:"doc_type"`
	Requirement string    `db:"requirement" json:"requirement"`
	Repaired    bool      `db:"repaired" json:"repaired"`
	Bundle      string    `db:"bundle" json:"bundle"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Store wraps a pooled sqlx.DB connection to the draft history database.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at the provided path.
// The schema is migrated on first use.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", abs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Info("history: store ready", "path", abs)
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`CREATE TABLE IF NOT EXISTS draft_history (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                request_id TEXT NOT NULL,
                workspace TEXT NOT NULL,
                provider TEXT NOT NULL,
                model TEXT NOT NULL,
                doc_type TEXT NOT NULL,
                requirement TEXT NOT NULL,
                repaired INTEGER NOT NULL DEFAULT 0,
                bundle TEXT NOT NULL,
                created_at TIMESTAMP NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_draft_history_workspace
                ON draft_history(workspace, created_at DESC);`,
}

// Append records one completed draft.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return errors.New("history store not initialised")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `
                INSERT INTO draft_history
                        (request_id, workspace, provider, model, doc_type, requirement, repaired, bundle, created_at)
                VALUES
                        (:request_id, :workspace, :provider, :model, :doc_type, :requirement, :repaired, :bundle, :created_at)`,
		rec)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns the workspace's newest drafts first, capped at limit.
func (s *Store) Recent(ctx context.Context, workspace string, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store not initialised")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []Record
	err := s.db.SelectContext(ctx, &records, `
                SELECT id, request_id, workspace, provider, model, doc_type, requirement, repaired, bundle, created_at
                FROM draft_history
                WHERE workspace = ?
                ORDER BY created_at DESC, id DESC
                LIMIT ?`,
		workspace, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

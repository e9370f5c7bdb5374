package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

// Repository caches the last known server collection plus UI preferences in a
// local sqlite file. The remote store stays authoritative; the cache only
// seeds the list before the first fetch completes.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS todos (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  completed INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT,
  fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) CheckWritable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO preferences (key, value) VALUES ('_write_check', 'ok')`); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = '_write_check'`); err != nil {
		return fmt.Errorf("write check cleanup: %w", err)
	}
	return nil
}

// SaveTodos replaces the cached collection with the given one. The server
// always returns the full list, so a wholesale swap keeps the cache honest
// about removals.
func (r *Repository) SaveTodos(ctx context.Context, todos []todoapi.Todo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO todos (id, title, completed, created_at, updated_at, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, todo := range todos {
		if _, err := stmt.ExecContext(
			ctx,
			todo.ID,
			todo.Title,
			boolToInt(todo.Completed),
			todo.CreatedAt.UTC().Format(time.RFC3339Nano),
			formatOptionalTime(todo.UpdatedAt),
			now,
		); err != nil {
			return fmt.Errorf("save todo %s: %w", todo.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) UpsertTodo(ctx context.Context, todo todoapi.Todo) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO todos (id, title, completed, created_at, updated_at, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  completed=excluded.completed,
  created_at=excluded.created_at,
  updated_at=excluded.updated_at,
  fetched_at=excluded.fetched_at
`,
		todo.ID,
		todo.Title,
		boolToInt(todo.Completed),
		todo.CreatedAt.UTC().Format(time.RFC3339Nano),
		formatOptionalTime(todo.UpdatedAt),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert todo %s: %w", todo.ID, err)
	}
	return nil
}

func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

// ListTodos returns cached records in creation order, matching the order the
// server keeps its collection in.
func (r *Repository) ListTodos(ctx context.Context, limit int) ([]todoapi.Todo, error) {
	if limit < 1 {
		limit = 200
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, completed, created_at, updated_at
FROM todos
ORDER BY created_at ASC, id ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]todoapi.Todo, 0, limit)
	for rows.Next() {
		var todo todoapi.Todo
		var completed int
		var createdAt string
		var updatedAt sql.NullString
		if err := rows.Scan(&todo.ID, &todo.Title, &completed, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}

		todo.Completed = completed != 0
		todo.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse todo created_at %q: %w", createdAt, err)
		}
		if updatedAt.Valid && updatedAt.String != "" {
			parsed, err := time.Parse(time.RFC3339Nano, updatedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse todo updated_at %q: %w", updatedAt.String, err)
			}
			todo.UpdatedAt = &parsed
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return todos, nil
}

func (r *Repository) SavePreference(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

func (r *Repository) LoadPreferences(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

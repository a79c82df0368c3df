package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/model"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		category    TEXT,
		deadline    TEXT,
		completed   INTEGER NOT NULL DEFAULT 0 CHECK (completed IN (0, 1))
	);
`

const selectTasks = `SELECT id, description, COALESCE(category, '') AS category, COALESCE(deadline, '') AS deadline, completed FROM tasks`

// TaskStore is the set of operations the CLI, the calendar sync and the
// importer need. *Store satisfies it.
type TaskStore interface {
	Initialize(ctx context.Context) error
	Create(ctx context.Context, d model.Draft) (int64, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, sortBy model.SortBy) ([]model.Task, error)
	Search(ctx context.Context, category, deadline string) ([]model.Task, error)
	Update(ctx context.Context, id int64, p model.Patch) (model.Outcome, error)
	MarkCompleted(ctx context.Context, id int64) (model.Outcome, error)
	Remove(ctx context.Context, id int64) (model.Outcome, error)
	Summary(ctx context.Context) (model.Summary, error)
}

// Store persists tasks in a single SQLite file.
type Store struct {
	log  *log.Logger
	conn *sqlx.DB
}

var _ TaskStore = (*Store)(nil)

// Open connects to the SQLite database at path, creating the parent
// directory when needed. Call Initialize before using the store.
func Open(logger *log.Logger, path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		logger.Error("connection problem", "path", path, "err", err)
		return nil, err
	}
	// One connection keeps :memory: databases alive across statements.
	conn.SetMaxOpenConns(1)

	return &Store{log: logger, conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Initialize creates the tasks table if it does not exist yet.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	s.log.Debug("tasks table ready")
	return nil
}

func (s *Store) Create(ctx context.Context, d model.Draft) (int64, error) {
	if err := validateDraft(d); err != nil {
		return 0, err
	}

	const q = `INSERT INTO tasks (description, category, deadline, completed) VALUES (?, ?, ?, 0)`

	res, err := s.conn.ExecContext(ctx, q, d.Description, nullable(d.Category), nullable(d.Deadline))
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	s.log.Debug("task created", "id", id)
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	if err := s.conn.GetContext(ctx, &t, selectTasks+` WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns every task. Tasks without a deadline sort after all dated
// tasks when ordering by deadline.
func (s *Store) List(ctx context.Context, sortBy model.SortBy) ([]model.Task, error) {
	q := selectTasks
	switch sortBy {
	case model.SortDeadline:
		q += ` ORDER BY deadline IS NULL, deadline, id`
	case model.SortStatus:
		q += ` ORDER BY completed, id`
	default:
		q += ` ORDER BY id`
	}

	out := []model.Task{}
	if err := s.conn.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// Search returns the tasks matching every non-empty filter exactly.
func (s *Store) Search(ctx context.Context, category, deadline string) ([]model.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(selectTasks)
	sb.WriteString(` WHERE 1=1`)
	if category != "" {
		sb.WriteString(` AND category = ?`)
		args = append(args, category)
	}
	if deadline != "" {
		sb.WriteString(` AND deadline = ?`)
		args = append(args, deadline)
	}
	sb.WriteString(` ORDER BY id`)

	out := []model.Task{}
	if err := s.conn.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return out, nil
}

// Update overwrites the non-empty fields of p in a single statement. When
// any field is invalid nothing is written.
func (s *Store) Update(ctx context.Context, id int64, p model.Patch) (model.Outcome, error) {
	if err := validatePatch(p); err != nil {
		return model.NotFound, err
	}

	if p.IsEmpty() {
		if _, err := s.Get(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return model.NotFound, nil
			}
			return model.NotFound, err
		}
		return model.Updated, nil
	}

	var (
		sets []string
		args []any
	)
	if strings.TrimSpace(p.Description) != "" {
		sets = append(sets, "description = ?")
		args = append(args, p.Description)
	}
	if p.Category != "" {
		sets = append(sets, "category = ?")
		args = append(args, p.Category)
	}
	if p.Deadline != "" {
		sets = append(sets, "deadline = ?")
		args = append(args, p.Deadline)
	}
	args = append(args, id)

	q := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	outcome, err := s.exec(ctx, q, model.Updated, args...)
	if err != nil {
		return model.NotFound, fmt.Errorf("update task: %w", err)
	}
	s.log.Debug("task update", "id", id, "outcome", outcome)
	return outcome, nil
}

func (s *Store) MarkCompleted(ctx context.Context, id int64) (model.Outcome, error) {
	outcome, err := s.exec(ctx, `UPDATE tasks SET completed = 1 WHERE id = ?`, model.Completed, id)
	if err != nil {
		return model.NotFound, fmt.Errorf("complete task: %w", err)
	}
	s.log.Debug("task complete", "id", id, "outcome", outcome)
	return outcome, nil
}

func (s *Store) Remove(ctx context.Context, id int64) (model.Outcome, error) {
	outcome, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, model.Removed, id)
	if err != nil {
		return model.NotFound, fmt.Errorf("delete task: %w", err)
	}
	s.log.Debug("task remove", "id", id, "outcome", outcome)
	return outcome, nil
}

func (s *Store) Summary(ctx context.Context) (model.Summary, error) {
	var sum model.Summary
	if err := s.conn.GetContext(ctx, &sum.Total, `SELECT COUNT(*) FROM tasks`); err != nil {
		return model.Summary{}, fmt.Errorf("count tasks: %w", err)
	}
	if err := s.conn.GetContext(ctx, &sum.Completed, `SELECT COUNT(*) FROM tasks WHERE completed = 1`); err != nil {
		return model.Summary{}, fmt.Errorf("count completed tasks: %w", err)
	}
	sum.Pending = sum.Total - sum.Completed
	return sum, nil
}

// exec runs a single-row mutation and maps zero affected rows to NotFound.
func (s *Store) exec(ctx context.Context, q string, onHit model.Outcome, args ...any) (model.Outcome, error) {
	res, err := s.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return model.NotFound, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return model.NotFound, err
	}
	if aff == 0 {
		return model.NotFound, nil
	}
	return onHit, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

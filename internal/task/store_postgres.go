package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"taskshare/pkg/platform/sentinel"
)

// PostgresStore persists tasks in PostgreSQL. This store is pure I/O;
// validation, visibility and normalization belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed task store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tasks table. Idempotent; called at startup and from
// integration tests.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			owner_email TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			shared_with TEXT[] NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS tasks_owner_email_idx ON tasks (LOWER(owner_email));
		CREATE INDEX IF NOT EXISTS tasks_shared_with_idx ON tasks USING GIN (shared_with);
	`)
	if err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, t *Task) (*Task, error) {
	query := `
		INSERT INTO tasks (id, title, description, owner_email, status, shared_with)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, owner_email, status, shared_with
	`
	shared := t.SharedWith
	if shared == nil {
		shared = []string{}
	}
	created, err := scanTask(s.db.QueryRowContext(ctx, query,
		uuid.NewString(), t.Title, t.Description, t.OwnerEmail, string(t.Status), pq.Array(shared),
	))
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Task, error) {
	if !validID(id) {
		return nil, sentinel.ErrNotFound
	}
	query := `
		SELECT id, title, description, owner_email, status, shared_with
		FROM tasks
		WHERE id = $1
	`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListForEmail matches emails case-insensitively. shared_with entries are
// lowercased before they reach the store, so only the input needs folding.
func (s *PostgresStore) ListForEmail(ctx context.Context, email string) ([]*Task, error) {
	query := `
		SELECT id, title, description, owner_email, status, shared_with
		FROM tasks
		WHERE LOWER(owner_email) = LOWER($1) OR LOWER($1) = ANY(shared_with)
		ORDER BY title ASC
	`
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the present fields in a single atomic statement; absent
// fields ride along unchanged via COALESCE.
func (s *PostgresStore) Update(ctx context.Context, id string, fields UpdateFields) (*Task, error) {
	if !validID(id) {
		return nil, sentinel.ErrNotFound
	}
	query := `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			shared_with = COALESCE($5::text[], shared_with)
		WHERE id = $1
		RETURNING id, title, description, owner_email, status, shared_with
	`
	var status *string
	if fields.Status != nil {
		v := string(*fields.Status)
		status = &v
	}
	var shared interface{}
	if fields.SharedWith != nil {
		shared = pq.Array(*fields.SharedWith)
	}
	t, err := scanTask(s.db.QueryRowContext(ctx, query,
		id, fields.Title, fields.Description, status, shared,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return sentinel.ErrNotFound
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// validID screens non-UUID ids before they reach the uuid column; a malformed
// id is just another id with no matching record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var status string
	var shared pq.StringArray
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.OwnerEmail, &status, &shared); err != nil {
		return nil, err
	}
	t.Status = Status(status)
	t.SharedWith = []string(shared)
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	return &t, nil
}

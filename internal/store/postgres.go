// Package store provides the persistence backends: PostgreSQL for the web
// service and an in-memory map for the console tool and tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure. The
// constraint on users.email is the authoritative breaker for concurrent
// signups with the same address.
const uniqueViolation = "23505"

// invalidTextSyntax is the SQLSTATE Postgres raises when a parameter cannot
// be cast to its column type, e.g. a non-UUID id. A garbage id must be
// indistinguishable from a missing row, so lookups treat it as no row.
const invalidTextSyntax = "22P02"

// isNoRow reports whether err means the keyed row cannot exist: either the
// query matched nothing or the key could never match a UUID column.
func isNoRow(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextSyntax
}

// PostgresStore handles identity and task CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it doesn't exist. Deleting an identity
// cascades to its tasks.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email         VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       VARCHAR(100) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			completed   BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_user_created
			ON tasks (user_id, created_at DESC)
	`)
	return err
}

func (s *PostgresStore) CreateIdentity(ctx context.Context, email, passwordHash string) (*models.Identity, error) {
	var u models.Identity
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, email, password_hash, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.New(apperr.KindConflict, "An account with this email already exists")
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var u models.Identity
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "Identity not found")
		}
		return nil, fmt.Errorf("get identity by email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetIdentityByID(ctx context.Context, id string) (*models.Identity, error) {
	var u models.Identity
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, apperr.New(apperr.KindNotFound, "Identity not found")
		}
		return nil, fmt.Errorf("get identity by id: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, userID, title, description string) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, title, description, completed, created_at, updated_at`,
		userID, title, description,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// ListTasks returns the owner's tasks newest first.
func (s *PostgresStore) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask filters by both task id and owner id, so a foreign task surfaces
// as not found.
func (s *PostgresStore) GetTask(ctx context.Context, id, userID string) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, apperr.New(apperr.KindNotFound, "Task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, completed = $5, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, description, completed, created_at, updated_at`,
		task.ID, task.UserID, task.Title, task.Description, task.Completed,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, apperr.New(apperr.KindNotFound, "Task not found")
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isNoRow(err) {
			return apperr.New(apperr.KindNotFound, "Task not found")
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "Task not found")
	}
	return nil
}

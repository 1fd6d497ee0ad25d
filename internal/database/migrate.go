package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'member',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id            BIGSERIAL PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'todo',
		priority      TEXT NOT NULL DEFAULT 'medium',
		due_date      TIMESTAMPTZ,
		tags          TEXT[] NOT NULL DEFAULT '{}',
		assignee_id   BIGINT NOT NULL REFERENCES users(id),
		created_by_id BIGINT NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks (assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date)`,
	// No foreign key on task_id: activity entries outlive the task they
	// reference and are never deleted.
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id         BIGSERIAL PRIMARY KEY,
		task_id    BIGINT NOT NULL,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		action     TEXT NOT NULL,
		changes    JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_task ON activity_logs (task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_logs (created_at)`,
}

// Migrate applies the idempotent schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

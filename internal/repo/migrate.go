package repo

import "context"

// Schema bootstrap. Idempotent; runs at startup so a fresh database is usable
// without an external migration tool.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            text PRIMARY KEY,
		name          text NOT NULL,
		email         text NOT NULL UNIQUE,
		avatar        text NOT NULL DEFAULT '',
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL,
		updated_at    timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          text PRIMARY KEY,
		name        text NOT NULL,
		description text NOT NULL DEFAULT '',
		key         text NOT NULL,
		owner       text NOT NULL,
		created_at  timestamptz NOT NULL,
		updated_at  timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_id text NOT NULL,
		user_id    text NOT NULL,
		role       text NOT NULL DEFAULT 'member',
		PRIMARY KEY (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS project_counters (
		project_id text PRIMARY KEY,
		seq        bigint NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id          text PRIMARY KEY,
		title       text NOT NULL,
		description text NOT NULL DEFAULT '',
		project_id  text NOT NULL,
		ticket_key  text NOT NULL,
		status      text NOT NULL,
		priority    text NOT NULL,
		type        text NOT NULL,
		reporter    text NOT NULL,
		assignee    text NOT NULL DEFAULT '',
		labels      text[] NOT NULL DEFAULT '{}',
		due_at      timestamptz,
		created_at  timestamptz NOT NULL,
		updated_at  timestamptz NOT NULL,
		UNIQUE (project_id, ticket_key)
	)`,
	`CREATE INDEX IF NOT EXISTS tickets_project_idx ON tickets (project_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         text PRIMARY KEY,
		ticket_id  text NOT NULL,
		user_id    text NOT NULL,
		body       text NOT NULL,
		mentions   text[] NOT NULL DEFAULT '{}',
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_ticket_idx ON comments (ticket_id, created_at)`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := d.Pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

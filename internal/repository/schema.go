package repository

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS streaks (
		user_id BIGINT PRIMARY KEY,
		current_streak INTEGER NOT NULL CHECK (current_streak >= 1),
		longest_streak INTEGER NOT NULL,
		last_check_in TIMESTAMPTZ NOT NULL,
		rest_day_used BOOLEAN NOT NULL DEFAULT FALSE,
		CHECK (longest_streak >= current_streak)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL,
		type TEXT NOT NULL,
		unlocked_at TIMESTAMPTZ NOT NULL,
		acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (user_id, type)
	)`,
	`CREATE INDEX IF NOT EXISTS achievements_unacknowledged_idx
		ON achievements (user_id, unlocked_at) WHERE acknowledged = FALSE`,
	`CREATE TABLE IF NOT EXISTS breathing_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS video_watches (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		video_id TEXT NOT NULL,
		watched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS journey_progress (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		journey_id TEXT NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS daily_reflections (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		skipped BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS streaks (
		user_id INTEGER PRIMARY KEY,
		current_streak INTEGER NOT NULL CHECK (current_streak >= 1),
		longest_streak INTEGER NOT NULL,
		last_check_in DATETIME NOT NULL,
		rest_day_used BOOLEAN NOT NULL DEFAULT 0,
		CHECK (longest_streak >= current_streak)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		unlocked_at DATETIME NOT NULL,
		acknowledged BOOLEAN NOT NULL DEFAULT 0,
		UNIQUE (user_id, type)
	)`,
	`CREATE TABLE IF NOT EXISTS breathing_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS video_watches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		video_id TEXT NOT NULL,
		watched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS journey_progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		journey_id TEXT NOT NULL,
		completed_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS daily_reflections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		skipped BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the engine tables and the activity tables its counters read.
// Safe to run on every start.
func (r *Repository) Migrate(ctx context.Context) error {
	stmts := postgresSchema
	if r.driver == DriverSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}

// Package database opens the SQLite store and keeps its schema current.
package database

import (
	"database/sql"
	"fmt"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
	_ "modernc.org/sqlite"
)

// ConnectDB opens the SQLite database configured in cfg, applies the
// connection pragmas and runs the schema migration.
func ConnectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}

	logger.Log.WithField("path", cfg.DBPath).Info("Connected to SQLite database")
	return db, nil
}

// Migrate creates the schema if it does not exist yet. Reminder and
// message rows are removed by the database itself when their parent
// task, user or conversation is deleted.
func Migrate(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL DEFAULT 'user',
			last_active     TEXT,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed   INTEGER NOT NULL DEFAULT 0,
			due_date    TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);

		CREATE TABLE IF NOT EXISTS reminders (
			id                      TEXT PRIMARY KEY,
			user_id                 TEXT NOT NULL,
			task_id                 TEXT NOT NULL,
			remind_at               TEXT NOT NULL,
			repeat_interval_minutes INTEGER,
			repeat_count            INTEGER,
			triggered_count         INTEGER NOT NULL DEFAULT 0,
			is_active               INTEGER NOT NULL DEFAULT 1,
			created_at              TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id);
		CREATE INDEX IF NOT EXISTS idx_reminders_due  ON reminders(user_id, is_active, remind_at);

		CREATE TABLE IF NOT EXISTS conversations (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS messages (
			id              TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			role            TEXT NOT NULL,
			content         TEXT NOT NULL,
			created_at      TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	logger.InitLogger()

	path := filepath.Join(t.TempDir(), "planner.db")
	db, err := ConnectDB(&config.Config{DBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestConnectDB_MigrationIsIdempotent(t *testing.T) {
	db, path := openTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ('u1', 'alice', 'alice@example.com', 'x', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Reopening must keep the schema and the data.
	again, err := ConnectDB(&config.Config{DBPath: path})
	require.NoError(t, err)
	defer again.Close()

	var count int
	require.NoError(t, again.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestConnectDB_EnablesForeignKeys(t *testing.T) {
	db, _ := openTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestSchema_TaskDeleteCascadesToReminders(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ('u1', 'alice', 'alice@example.com', 'x', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (id, user_id, title, created_at, updated_at)
		VALUES ('t1', 'u1', 'Task', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO reminders (id, user_id, task_id, remind_at, created_at)
		VALUES ('r1', 'u1', 't1', '2025-06-01T09:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// A plain row delete, no application code involved.
	_, err = db.Exec(`DELETE FROM tasks WHERE id = 't1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM reminders`).Scan(&count))
	assert.Equal(t, 0, count, "the schema itself must remove orphaned reminders")
}

func TestSchema_RejectsReminderForUnknownTask(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ('u1', 'alice', 'alice@example.com', 'x', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO reminders (id, user_id, task_id, remind_at, created_at)
		VALUES ('r1', 'u1', 'ghost-task', '2025-06-01T09:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "reminders without a task must be rejected by the schema")
}

func TestSchema_UserDeleteCascadesEverything(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ('u1', 'alice', 'alice@example.com', 'x', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (id, user_id, title, created_at, updated_at)
		VALUES ('t1', 'u1', 'Task', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO reminders (id, user_id, task_id, remind_at, created_at)
		VALUES ('r1', 'u1', 't1', '2025-06-01T09:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		VALUES ('c1', 'u1', 'Chat', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ('m1', 'c1', 'user', 'hello', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM users WHERE id = 'u1'`)
	require.NoError(t, err)

	for _, table := range []string{"tasks", "reminders", "conversations", "messages"} {
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Equal(t, 0, count, "table %s should be empty after the user is deleted", table)
	}
}

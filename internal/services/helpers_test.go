package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/internal/database"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
)

// testEnv wires the full service stack against a throwaway SQLite file.
type testEnv struct {
	db            *sql.DB
	users         *UserService
	tasks         *TaskService
	reminders     *ReminderService
	conversations *ConversationService
	reminderRepo  *repository.ReminderRepository
	taskRepo      *repository.TaskRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.InitLogger()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "planner.db")}
	db, err := database.ConnectDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	return &testEnv{
		db:            db,
		users:         NewUserService(userRepo),
		tasks:         NewTaskService(taskRepo),
		reminders:     NewReminderService(reminderRepo, taskRepo),
		conversations: NewConversationService(conversationRepo),
		reminderRepo:  reminderRepo,
		taskRepo:      taskRepo,
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.users.RegisterUser(context.Background(), &models.RegisterRequest{
		Username: "tester",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTask(t *testing.T, userID, title string) *models.Task {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), userID, &models.CreateTaskRequest{
		Title:       title,
		Description: "test task",
	})
	require.NoError(t, err)
	return task
}

func intPtr(v int) *int {
	return &v
}

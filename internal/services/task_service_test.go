package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
)

func TestCreateTask_RequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@example.com")

	_, err := env.tasks.CreateTask(context.Background(), user.ID, &models.CreateTaskRequest{
		Title: "   ",
	})
	verr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", verr.Field)
}

func TestCreateTask_StoresFields(t *testing.T) {
	env := newTestEnv(t)
	dueDate := time.Date(2030, 3, 1, 18, 0, 0, 0, time.UTC)

	user := env.registerUser(t, "alice@example.com")
	task, err := env.tasks.CreateTask(context.Background(), user.ID, &models.CreateTaskRequest{
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     &dueDate,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, user.ID, task.UserID)
	assert.False(t, task.Completed)

	stored, err := env.tasks.GetTask(context.Background(), user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", stored.Title)
	assert.Equal(t, "Quarterly numbers", stored.Description)
	require.NotNil(t, stored.DueDate)
	assert.Equal(t, dueDate, *stored.DueDate)
}

func TestGetTask_ForeignTaskIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")
	bobsTask := env.createTask(t, bob.ID, "Bob's secret")

	_, err := env.tasks.GetTask(context.Background(), alice.ID, bobsTask.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateTask_AppliesPartialChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice@example.com")
	task := env.createTask(t, user.ID, "Original title")

	completed := true
	updated, err := env.tasks.UpdateTask(ctx, user.ID, task.ID, &models.UpdateTaskRequest{
		Completed: &completed,
	})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, "Original title", updated.Title, "fields not in the request stay untouched")
}

func TestUpdateTask_RejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@example.com")
	task := env.createTask(t, user.ID, "Keep me")

	empty := ""
	_, err := env.tasks.UpdateTask(context.Background(), user.ID, task.ID, &models.UpdateTaskRequest{
		Title: &empty,
	})
	verr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", verr.Field)
}

func TestGetTasks_OnlyOwnTasks(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")
	env.createTask(t, alice.ID, "Alice one")
	env.createTask(t, alice.ID, "Alice two")
	env.createTask(t, bob.ID, "Bob one")

	tasks, err := env.tasks.GetTasks(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, alice.ID, task.UserID)
	}
}

func TestDeleteTask_ForeignTaskIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")
	bobsTask := env.createTask(t, bob.ID, "Bob's chore")

	err := env.tasks.DeleteTask(context.Background(), alice.ID, bobsTask.ID)
	assert.True(t, apperrors.IsNotFound(err))

	// Still there for Bob.
	_, err = env.tasks.GetTask(context.Background(), bob.ID, bobsTask.ID)
	assert.NoError(t, err)
}

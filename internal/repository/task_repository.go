package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TaskRepository handles database operations related to tasks.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a new task into the database.
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, completed, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, task.Completed,
		formatNullableTime(task.DueDate),
		task.CreatedAt.Format(timeFormat), task.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert task into database")
		return nil, fmt.Errorf("failed to insert task: %v", err)
	}
	return task, nil
}

// GetTaskByID retrieves a task owned by the given user.
func (r *TaskRepository) GetTaskByID(ctx context.Context, id, userID string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, completed, due_date, created_at, updated_at
		 FROM tasks WHERE id = ? AND user_id = ?`, id, userID)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		logrus.WithField("taskID", id).WithError(err).Warn("Failed to find task by ID")
		return nil, fmt.Errorf("failed to find task: %v", err)
	}
	return task, nil
}

// GetTasks returns all tasks of a user, newest first.
func (r *TaskRepository) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, completed, due_date, created_at, updated_at
		 FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %v", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces the mutable fields of a task owned by the user.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title, task.Description, task.Completed, formatNullableTime(task.DueDate),
		task.UpdatedAt.Format(timeFormat), task.ID, task.UserID,
	)
	if err != nil {
		logrus.WithField("taskID", task.ID).WithError(err).Error("Failed to update task")
		return fmt.Errorf("failed to update task: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task owned by the user. Reminders attached to the
// task are cascade-deleted by the schema.
func (r *TaskRepository) DeleteTask(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		logrus.WithField("taskID", id).WithError(err).Error("Failed to delete task")
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row *sql.Row) (*models.Task, error) {
	return scanTaskRow(row)
}

func scanTaskRow(row rowScanner) (*models.Task, error) {
	var task models.Task
	var dueDate sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Completed, &dueDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	task.DueDate = parseNullableTime(dueDate)
	task.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	task.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &task, nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
)

// TaskService encapsulates the business logic for tasks.
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// CreateTask creates a new task for the given user.
func (s *TaskService) CreateTask(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	logger.Log.WithField("userID", userID).Info("Creating task")

	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title", "is required")
	}

	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create task")
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"taskID": created.ID,
		"userID": userID,
	}).Info("Task created successfully")

	return created, nil
}

// GetTask retrieves a single task owned by the user.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID, userID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"taskID": taskID,
			"userID": userID,
		}).Warn("Task not found")
		return nil, err
	}
	return task, nil
}

// GetTasks returns all tasks of the user.
func (s *TaskService) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.repo.GetTasks(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch tasks")
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies the requested changes to a task the user owns.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.NewValidationError("title", "cannot be empty")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		logger.Log.WithError(err).Error("Failed to update task")
		return nil, err
	}

	logger.Log.WithField("taskID", taskID).Info("Task updated successfully")
	return task, nil
}

// DeleteTask removes a task the user owns. Reminders attached to the
// task are removed by the database cascade.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.repo.DeleteTask(ctx, taskID, userID); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"taskID": taskID,
			"userID": userID,
		}).Warn("Failed to delete task")
		return err
	}

	logger.Log.WithField("taskID", taskID).Info("Task deleted successfully")
	return nil
}

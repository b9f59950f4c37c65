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

// ReminderService encapsulates the business logic for reminders.
type ReminderService struct {
	repo     *repository.ReminderRepository
	taskRepo *repository.TaskRepository
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(repo *repository.ReminderRepository, taskRepo *repository.TaskRepository) *ReminderService {
	return &ReminderService{
		repo:     repo,
		taskRepo: taskRepo,
	}
}

// CreateReminder validates the request and stores a new reminder for the
// user. A remind_at in the past is accepted: the reminder simply becomes
// due on the next due-reminder fetch.
func (s *ReminderService) CreateReminder(ctx context.Context, userID string, req *models.CreateReminderRequest) (*models.Reminder, error) {
	logger.Log.WithField("userID", userID).Info("Creating reminder")

	if strings.TrimSpace(req.TaskID) == "" {
		return nil, apperrors.NewValidationError("task_id", "is required")
	}

	remindAt, err := time.Parse(time.RFC3339, req.RemindAt)
	if err != nil {
		logger.Log.WithField("remind_at", req.RemindAt).Warn("Unparseable remind_at timestamp")
		return nil, apperrors.NewValidationError("remind_at", "must be an RFC 3339 timestamp")
	}

	repeat, err := repeatPolicyFromRequest(req)
	if err != nil {
		return nil, err
	}

	// The task must exist and belong to the caller. A missing task and a
	// foreign task produce the same not-found error.
	if _, err := s.taskRepo.GetTaskByID(ctx, req.TaskID, userID); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"taskID": req.TaskID,
			"userID": userID,
		}).Warn("Reminder refers to unknown task")
		return nil, err
	}

	reminder := &models.Reminder{
		UserID:         userID,
		TaskID:         req.TaskID,
		RemindAt:       remindAt.UTC(),
		Repeat:         repeat,
		TriggeredCount: 0,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create reminder")
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"reminderID": created.ID,
		"taskID":     created.TaskID,
		"remindAt":   created.RemindAt,
		"repeating":  created.IsRepeating(),
	}).Info("Reminder created successfully")

	return created, nil
}

// repeatPolicyFromRequest checks the optional repeat pair. Both fields
// must be present together, and each must stay within its bounds.
func repeatPolicyFromRequest(req *models.CreateReminderRequest) (*models.RepeatPolicy, error) {
	if req.RepeatIntervalMinutes == nil && req.RepeatCount == nil {
		return nil, nil
	}
	if req.RepeatIntervalMinutes == nil {
		return nil, apperrors.NewValidationError("repeat_interval_minutes", "is required when repeat_count is set")
	}
	if req.RepeatCount == nil {
		return nil, apperrors.NewValidationError("repeat_count", "is required when repeat_interval_minutes is set")
	}

	interval := *req.RepeatIntervalMinutes
	count := *req.RepeatCount

	if interval < 1 || interval > models.MaxRepeatIntervalMinutes {
		return nil, apperrors.NewValidationError("repeat_interval_minutes", "must be between 1 and 1440")
	}
	if count < 1 || count > models.MaxRepeatCount {
		return nil, apperrors.NewValidationError("repeat_count", "must be between 1 and 100")
	}

	return &models.RepeatPolicy{
		IntervalMinutes: interval,
		Count:           count,
	}, nil
}

// FetchAndProcessDue returns every reminder of the user that is due at
// the given instant, enriched with its task's title and description.
// Fetching is not a read-only operation: each returned reminder has its
// trigger counted, and is either rescheduled one interval ahead or
// deactivated. The returned snapshots reflect the state after that
// transition, and every transition is persisted before this returns.
//
// Concurrent fetches for the same user are not serialized, so two
// overlapping calls may count the same occurrence twice.
func (s *ReminderService) FetchAndProcessDue(ctx context.Context, userID string, now time.Time) ([]models.DueReminder, error) {
	due, err := s.repo.FindDue(ctx, userID, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch due reminders")
		return nil, err
	}

	for i := range due {
		due[i].Trigger()
		if err := s.repo.UpdateReminderState(ctx, &due[i].Reminder); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"reminderID": due[i].ID,
				"userID":     userID,
			}).WithError(err).Error("Failed to persist reminder transition")
			return nil, err
		}
	}

	if len(due) > 0 {
		logger.Log.WithFields(logrus.Fields{
			"userID": userID,
			"count":  len(due),
		}).Info("Processed due reminders")
	}

	return due, nil
}

// ListReminders returns all reminders of the user, active and spent.
func (s *ReminderService) ListReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	reminders, err := s.repo.GetReminders(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch reminders")
		return nil, err
	}
	return reminders, nil
}

// DeleteReminder removes a reminder the user owns.
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, reminderID string) error {
	if err := s.repo.DeleteReminder(ctx, reminderID, userID); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"reminderID": reminderID,
			"userID":     userID,
		}).Warn("Failed to delete reminder")
		return err
	}

	logger.Log.WithField("reminderID", reminderID).Info("Reminder deleted successfully")
	return nil
}

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

// ReminderRepository handles database operations related to reminders.
type ReminderRepository struct {
	db *sql.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// CreateReminder inserts a new reminder into the database.
func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	reminder.CreatedAt = time.Now().UTC()

	var interval, count any
	if reminder.Repeat != nil {
		interval = reminder.Repeat.IntervalMinutes
		count = reminder.Repeat.Count
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, task_id, remind_at, repeat_interval_minutes, repeat_count, triggered_count, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.UserID, reminder.TaskID,
		reminder.RemindAt.UTC().Format(timeFormat),
		interval, count,
		reminder.TriggeredCount, reminder.IsActive,
		reminder.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert reminder into database")
		return nil, fmt.Errorf("failed to insert reminder: %v", err)
	}
	return reminder, nil
}

// GetReminders returns all reminders of a user ordered by fire time.
func (r *ReminderRepository) GetReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task_id, remind_at, repeat_interval_minutes, repeat_count, triggered_count, is_active, created_at
		 FROM reminders WHERE user_id = ? ORDER BY remind_at ASC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %v", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %v", err)
		}
		reminders = append(reminders, *reminder)
	}
	return reminders, rows.Err()
}

// GetReminderByID retrieves a reminder owned by the given user.
func (r *ReminderRepository) GetReminderByID(ctx context.Context, id, userID string) (*models.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, task_id, remind_at, repeat_interval_minutes, repeat_count, triggered_count, is_active, created_at
		 FROM reminders WHERE id = ? AND user_id = ?`, id, userID)

	reminder, err := scanReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		logrus.WithField("reminderID", id).WithError(err).Warn("Failed to find reminder by ID")
		return nil, fmt.Errorf("failed to find reminder: %v", err)
	}
	return reminder, nil
}

// FindDue returns the user's active reminders whose fire time has passed,
// earliest first, each joined with its task's title and description.
func (r *ReminderRepository) FindDue(ctx context.Context, userID string, now time.Time) ([]models.DueReminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.task_id, r.remind_at, r.repeat_interval_minutes, r.repeat_count,
		        r.triggered_count, r.is_active, r.created_at, t.title, t.description
		 FROM reminders r
		 JOIN tasks t ON t.id = r.task_id
		 WHERE r.user_id = ? AND r.is_active = 1 AND r.remind_at <= ?
		 ORDER BY r.remind_at ASC, r.created_at ASC`,
		userID, now.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due reminders: %v", err)
	}
	defer rows.Close()

	var due []models.DueReminder
	for rows.Next() {
		var d models.DueReminder
		var remindAt, createdAt string
		var interval, count sql.NullInt64

		if err := rows.Scan(&d.ID, &d.UserID, &d.TaskID, &remindAt, &interval, &count,
			&d.TriggeredCount, &d.IsActive, &createdAt, &d.TaskTitle, &d.TaskDescription); err != nil {
			return nil, fmt.Errorf("failed to scan due reminder: %v", err)
		}

		d.RemindAt, _ = time.Parse(timeFormat, remindAt)
		d.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		d.Repeat = repeatFromColumns(interval, count)
		due = append(due, d)
	}
	return due, rows.Err()
}

// UpdateReminderState persists the outcome of a firing: the advanced fire
// time, the trigger counter and the active flag.
func (r *ReminderRepository) UpdateReminderState(ctx context.Context, reminder *models.Reminder) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET remind_at = ?, triggered_count = ?, is_active = ? WHERE id = ?`,
		reminder.RemindAt.UTC().Format(timeFormat),
		reminder.TriggeredCount, reminder.IsActive, reminder.ID,
	)
	if err != nil {
		logrus.WithField("reminderID", reminder.ID).WithError(err).Error("Failed to update reminder state")
		return fmt.Errorf("failed to update reminder: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder owned by the user.
func (r *ReminderRepository) DeleteReminder(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		logrus.WithField("reminderID", id).WithError(err).Error("Failed to delete reminder")
		return fmt.Errorf("failed to delete reminder: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var reminder models.Reminder
	var remindAt, createdAt string
	var interval, count sql.NullInt64

	if err := row.Scan(&reminder.ID, &reminder.UserID, &reminder.TaskID, &remindAt,
		&interval, &count, &reminder.TriggeredCount, &reminder.IsActive, &createdAt); err != nil {
		return nil, err
	}

	reminder.RemindAt, _ = time.Parse(timeFormat, remindAt)
	reminder.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	reminder.Repeat = repeatFromColumns(interval, count)
	return &reminder, nil
}

// repeatFromColumns rebuilds the repeat policy from the two nullable
// columns. Rows are written with both set or both NULL.
func repeatFromColumns(interval, count sql.NullInt64) *models.RepeatPolicy {
	if !interval.Valid || !count.Valid {
		return nil
	}
	return &models.RepeatPolicy{
		IntervalMinutes: int(interval.Int64),
		Count:           int(count.Int64),
	}
}

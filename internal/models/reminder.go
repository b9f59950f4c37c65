package models

import (
	"time"
)

// Repeat limits accepted when creating a reminder.
const (
	MaxRepeatIntervalMinutes = 1440
	MaxRepeatCount           = 100
)

// RepeatPolicy describes how a reminder repeats after it fires. A nil
// policy means the reminder fires once and deactivates.
type RepeatPolicy struct {
	IntervalMinutes int `json:"interval_minutes"`
	Count           int `json:"count"`
}

// Reminder links a point in time to a task. Once remind_at has passed
// the reminder fires on the next due fetch, advancing remind_at when a
// repeat budget remains and deactivating otherwise.
type Reminder struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	TaskID         string        `json:"task_id"`
	RemindAt       time.Time     `json:"remind_at"`
	Repeat         *RepeatPolicy `json:"repeat,omitempty"`
	TriggeredCount int           `json:"triggered_count"`
	IsActive       bool          `json:"is_active"`
	CreatedAt      time.Time     `json:"created_at"`
}

// DueReminder is a fired reminder enriched with its task's title and
// description for display.
type DueReminder struct {
	Reminder
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
}

// CreateReminderRequest is the payload accepted when creating a reminder.
// The repeat pair must be provided together or not at all.
type CreateReminderRequest struct {
	TaskID                string `json:"task_id"`
	RemindAt              string `json:"remind_at"`
	RepeatIntervalMinutes *int   `json:"repeat_interval_minutes,omitempty"`
	RepeatCount           *int   `json:"repeat_count,omitempty"`
}

// IsDue reports whether the reminder should fire at the given time.
func (r *Reminder) IsDue(now time.Time) bool {
	return r.IsActive && !r.RemindAt.After(now)
}

// IsRepeating reports whether the reminder carries a repeat policy.
func (r *Reminder) IsRepeating() bool {
	return r.Repeat != nil
}

// NextRemindAt computes the next fire time from the current one.
func (r *Reminder) NextRemindAt() time.Time {
	if r.Repeat == nil {
		return r.RemindAt
	}
	return r.RemindAt.Add(time.Duration(r.Repeat.IntervalMinutes) * time.Minute)
}

// Trigger applies one firing to the reminder: the trigger counter is
// incremented, then either remind_at advances by the repeat interval
// (while the repeat budget lasts) or the reminder deactivates for good.
func (r *Reminder) Trigger() {
	r.TriggeredCount++
	if r.IsRepeating() && r.TriggeredCount < r.Repeat.Count {
		r.RemindAt = r.NextRemindAt()
		return
	}
	r.IsActive = false
}

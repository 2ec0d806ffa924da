package cron

import (
	"context"
	"fmt"

	"github.com/homestockhq/homestock-backend/internal/reminders"
)

// ReminderJob runs the scheduled reminder check. The check carries its own
// schedule and delivery gates; the job just triggers a pass.
type ReminderJob struct {
	service reminders.Service
}

// NewReminderJob builds the job.
func NewReminderJob(service reminders.Service) (*ReminderJob, error) {
	if service == nil {
		return nil, fmt.Errorf("reminder service required")
	}
	return &ReminderJob{service: service}, nil
}

// Name implements Job.
func (j *ReminderJob) Name() string { return "reminder_check" }

// Run implements Job.
func (j *ReminderJob) Run(ctx context.Context) error {
	_, err := j.service.CheckAndSendReminders(ctx, false)
	return err
}

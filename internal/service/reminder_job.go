package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plant_buddy/internal/logger"
	"plant_buddy/internal/metrics"
	"plant_buddy/internal/models"
	"plant_buddy/internal/notify"
	"plant_buddy/internal/repository"
)

const (
	ReminderJobName = "reminders"

	unknownPlantName = "Unknown"
)

// ReminderJob fires due reminders and then reschedules or retires them.
type ReminderJob struct {
	reminders repository.ReminderRepo
	plants    repository.PlantRepo
	notifier  notify.Notifier
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewReminderJob(
	reminders repository.ReminderRepo,
	plants repository.PlantRepo,
	notifier notify.Notifier,
	log *logger.Logger,
	m *metrics.Metrics,
) *ReminderJob {
	return &ReminderJob{
		reminders: reminders,
		plants:    plants,
		notifier:  notifier,
		log:       logger.OrNop(log),
		metrics:   m,
		now:       time.Now,
	}
}

// Run is the scheduler entry point.
func (j *ReminderJob) Run(ctx context.Context) error {
	return j.RunOnce(ctx, j.now()).Error()
}

// RunOnce processes every reminder due at now. Reminders are handled one at
// a time; a failure is recorded on its item and the pass moves on. Failed
// reminders stay due and are picked up again by the next pass.
func (j *ReminderJob) RunOnce(ctx context.Context, now time.Time) *BatchReport {
	rep := newReport(ReminderJobName, now)
	defer func() { rep.FinishedAt = time.Now() }()

	due, err := j.reminders.FindDue(ctx, now)
	if err != nil {
		rep.Err = fmt.Errorf("find due reminders: %w", err)
		j.log.Errorw("reminder_pass_failed", "error", err)
		return rep
	}

	for _, r := range due {
		if err := ctx.Err(); err != nil {
			rep.Err = err
			break
		}
		j.process(ctx, r, rep)
	}

	if len(due) > 0 {
		j.log.Infow("reminder_pass",
			"due", len(due),
			"ok", rep.Count(ItemOK),
			"failed", rep.Count(ItemFailed),
			"skipped", rep.Count(ItemSkipped),
		)
	}
	return rep
}

func (j *ReminderJob) process(ctx context.Context, r models.Reminder, rep *BatchReport) {
	n := notify.Notification{
		ReminderID: r.ID,
		PlantID:    r.PlantID,
		PlantName:  j.plantName(ctx, r.PlantID),
		Kind:       r.Kind,
		Note:       r.Note,
		FiredAt:    r.NextAt,
	}
	if err := j.notifier.Notify(ctx, n); err != nil {
		j.log.Errorw("reminder_notify_failed", "reminder_id", r.ID, "error", err)
		rep.fail(r.ID, fmt.Errorf("notify: %w", err))
		return
	}
	j.metrics.ReminderFired(r.Kind)

	if r.Recurring() {
		next := r.FollowingAt()
		err := j.reminders.Advance(ctx, r.ID, r.NextAt, next)
		switch {
		case errors.Is(err, repository.ErrStaleReminder):
			j.log.Warnw("reminder_changed_concurrently", "reminder_id", r.ID)
			rep.skip(r.ID, "changed concurrently")
		case err != nil:
			j.log.Errorw("reminder_advance_failed", "reminder_id", r.ID, "error", err)
			rep.fail(r.ID, err)
		default:
			rep.ok(r.ID, "next "+next.UTC().Format(time.RFC3339))
		}
		return
	}

	deleted, err := j.reminders.Delete(ctx, r.ID)
	switch {
	case err != nil:
		j.log.Errorw("reminder_delete_failed", "reminder_id", r.ID, "error", err)
		rep.fail(r.ID, err)
	case !deleted:
		rep.skip(r.ID, "already removed")
	default:
		rep.ok(r.ID, "retired")
	}
}

// plantName resolves the owning plant's name, falling back to a placeholder
// when the plant is gone or the lookup fails.
func (j *ReminderJob) plantName(ctx context.Context, plantID string) string {
	p, err := j.plants.Get(ctx, plantID)
	if err != nil {
		j.log.Warnw("reminder_plant_lookup_failed", "plant_id", plantID, "error", err)
		return unknownPlantName
	}
	if p == nil || p.Name == "" {
		return unknownPlantName
	}
	return p.Name
}

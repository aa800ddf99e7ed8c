package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/tasks"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Enqueuer is the slice of asynq.Client the scheduler needs; tests record
// enqueued tasks instead of hitting redis.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler sweeps upcoming interviews once a minute and enqueues one
// reminder task per interview per schedule.
type Scheduler struct {
	db       *gorm.DB
	enqueuer Enqueuer
	logger   *slog.Logger
	lead     time.Duration
	cron     *cron.Cron
}

func NewScheduler(db *gorm.DB, enqueuer Enqueuer, logger *slog.Logger, lead time.Duration) *Scheduler {
	if lead <= 0 {
		lead = 15 * time.Minute
	}
	return &Scheduler{
		db:       db,
		enqueuer: enqueuer,
		logger:   logger,
		lead:     lead,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", func() {
		s.Sweep(context.Background(), time.Now())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "lead", s.lead.String())
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Sweep finds interviews starting within the lead window that have not been
// reminded yet, enqueues a reminder task for each, and stamps them so the
// next tick does not pick them up again. Failures are logged and the sweep
// moves on; nothing here may take down the tick.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) {
	windowEnd := now.Add(s.lead)

	var due []models.Interview
	err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusScheduled).
		Where("scheduled_at > ? AND scheduled_at <= ?", now, windowEnd).
		Where("reminder_sent_at IS NULL").
		Find(&due).Error
	if err != nil {
		s.logger.Error("reminder sweep query failed", "error", err)
		return
	}

	for _, interview := range due {
		task, err := tasks.NewReminderEmailTask(tasks.ReminderEmailPayload{
			InterviewID: interview.ID,
		})
		if err != nil {
			s.logger.Error("building reminder task failed",
				"interview_id", interview.ID, "error", err)
			continue
		}

		if _, err := s.enqueuer.Enqueue(task); err != nil {
			s.logger.Error("enqueueing reminder failed",
				"interview_id", interview.ID, "error", err)
			continue
		}

		if err := s.db.WithContext(ctx).
			Model(&models.Interview{}).
			Where("id = ?", interview.ID).
			Update("reminder_sent_at", now).Error; err != nil {
			s.logger.Error("stamping reminder failed",
				"interview_id", interview.ID, "error", err)
			continue
		}

		s.logger.Info("reminder enqueued",
			"interview_id", interview.ID, "scheduled_at", interview.ScheduledAt)
	}
}

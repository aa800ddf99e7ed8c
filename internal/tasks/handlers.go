package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/mailer"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	mail   mailer.Mailer
	logger *slog.Logger
}

func NewHandler(db *gorm.DB, mail mailer.Mailer, logger *slog.Logger) *Handler {
	return &Handler{db: db, mail: mail, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReminderEmail, h.HandleReminderEmail)
}

// HandleReminderEmail sends one reminder to each party of a scheduled
// interview. A stale task (interview deleted, cancelled or re-drafted) is
// dropped without error so asynq does not retry it; a delivery failure is
// returned so it does.
func (h *Handler) HandleReminderEmail(ctx context.Context, t *asynq.Task) error {
	var payload ReminderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var interview models.Interview
	err := h.db.WithContext(ctx).
		Preload("Recruiter").
		Preload("Candidate").
		First(&interview, payload.InterviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Info("reminder skipped, interview gone", "interview_id", payload.InterviewID)
			return nil
		}
		return err
	}

	if interview.Status != models.StatusScheduled || interview.ScheduledAt == nil {
		h.logger.Info("reminder skipped, interview no longer scheduled",
			"interview_id", interview.ID, "status", interview.Status)
		return nil
	}
	if interview.Recruiter == nil || interview.Candidate == nil {
		h.logger.Warn("reminder skipped, party unresolved", "interview_id", interview.ID)
		return nil
	}

	for _, user := range []*models.User{interview.Recruiter, interview.Candidate} {
		subject, body := mailer.ReminderEmail(user.Name, interview.Title, *interview.ScheduledAt)
		if err := h.mail.SendEmail(user.Email, subject, body); err != nil {
			return fmt.Errorf("reminder to %s: %w", user.Email, err)
		}
	}

	h.logger.Info("reminder emails sent", "interview_id", interview.ID)
	return nil
}

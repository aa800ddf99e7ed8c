package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeReminderEmail = "email:reminder"
)

// ReminderEmailPayload identifies the interview both parties should be
// reminded about.
type ReminderEmailPayload struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

func NewReminderEmailTask(payload ReminderEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReminderEmail, data), nil
}

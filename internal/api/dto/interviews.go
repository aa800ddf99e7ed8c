package dto

import (
	"strings"
	"time"

	"github.com/hireloop/hireloop/internal/database/models"
)

type CreateInterviewRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	JobRole     string `json:"job_role,omitempty"`
}

func (r CreateInterviewRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}
	if r.JobRole != "" && !models.JobRoles[r.JobRole] {
		errors["job_role"] = "Unknown job role"
	}

	return errors
}

type UpdateInterviewRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	JobRole     *string `json:"job_role,omitempty"`
}

func (r UpdateInterviewRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}
	if r.Description != nil && *r.Description == "" {
		errors["description"] = "Description cannot be empty"
	}
	if r.JobRole != nil && *r.JobRole != "" && !models.JobRoles[*r.JobRole] {
		errors["job_role"] = "Unknown job role"
	}

	return errors
}

type InviteRequest struct {
	Email       string    `json:"email"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (r InviteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !strings.Contains(r.Email, "@") {
		errors["email"] = "Email is invalid"
	}
	if r.ScheduledAt.IsZero() {
		errors["scheduled_at"] = "Scheduled time is required"
	}

	return errors
}

type SaveAnswerRequest struct {
	Answer string `json:"answer"`
}

type AssessAnswerRequest struct {
	Answer string `json:"answer,omitempty"`
}

type AnswerSubmission struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerSubmission `json:"answers"`
}

func (r SubmitAnswersRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if len(r.Answers) == 0 {
		errors["answers"] = "At least one answer is required"
	}
	return errors
}

type QuestionDTO struct {
	QuestionText string             `json:"question_text"`
	AnswerText   string             `json:"answer_text,omitempty"`
	Assessment   *models.Assessment `json:"assessment,omitempty"`
}

type InterviewResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	JobRole     string        `json:"job_role,omitempty"`
	RecruiterID string        `json:"recruiter_id"`
	CandidateID string        `json:"candidate_id,omitempty"`
	ScheduledAt string        `json:"scheduled_at,omitempty"`
	Status      string        `json:"status"`
	Questions   []QuestionDTO `json:"questions"`
	Score       *float64      `json:"score,omitempty"`
	Feedback    string        `json:"feedback,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

func NewInterviewResponse(interview *models.Interview) InterviewResponse {
	resp := InterviewResponse{
		ID:          interview.ID.String(),
		Title:       interview.Title,
		Description: interview.Description,
		JobRole:     interview.JobRole,
		RecruiterID: interview.RecruiterID.String(),
		Status:      string(interview.Status),
		Questions:   make([]QuestionDTO, len(interview.Questions)),
		Score:       interview.Score,
		Feedback:    interview.Feedback,
		CreatedAt:   interview.CreatedAt.Format(time.RFC3339),
	}
	if interview.CandidateID != nil {
		resp.CandidateID = interview.CandidateID.String()
	}
	if interview.ScheduledAt != nil {
		resp.ScheduledAt = interview.ScheduledAt.Format(time.RFC3339)
	}
	for i, q := range interview.Questions {
		resp.Questions[i] = QuestionDTO{
			QuestionText: q.QuestionText,
			AnswerText:   q.AnswerText,
			Assessment:   q.Assessment,
		}
	}
	return resp
}

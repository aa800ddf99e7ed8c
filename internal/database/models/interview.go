package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusDraft      InterviewStatus = "draft"
	StatusScheduled  InterviewStatus = "scheduled"
	StatusInProgress InterviewStatus = "in-progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

// IsTerminal reports whether no further transition may leave the status.
// Cancelled interviews can still be deleted but never resurrected.
func (s InterviewStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Assessment is the model-produced evaluation of a single answer.
// It is written as a whole or not at all.
type Assessment struct {
	Score     float64   `json:"score"` // 0-10
	Keywords  []string  `json:"keywords"`
	Sentiment Sentiment `json:"sentiment"`
	Feedback  string    `json:"feedback"`
}

// Question is embedded in an interview; it is never independently addressable.
type Question struct {
	QuestionText string      `json:"question_text"`
	AnswerText   string      `json:"answer_text,omitempty"`
	Assessment   *Assessment `json:"assessment,omitempty"`
}

type Interview struct {
	Base
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `json:"description"`
	JobRole     string `gorm:"size:100" json:"job_role,omitempty"`

	RecruiterID uuid.UUID  `gorm:"type:uuid;index;not null" json:"recruiter_id"`
	CandidateID *uuid.UUID `gorm:"type:uuid;index" json:"candidate_id,omitempty"`

	ScheduledAt *time.Time      `gorm:"index" json:"scheduled_at,omitempty"`
	Status      InterviewStatus `gorm:"not null;index;default:'draft'" json:"status"`

	Questions []Question `gorm:"serializer:json" json:"questions"`

	Score    *float64 `json:"score,omitempty"` // 0-10, one decimal
	Feedback string   `json:"feedback,omitempty"`

	// Set once the pre-interview reminder has been enqueued; cleared when
	// the interview is rescheduled.
	ReminderSentAt *time.Time `json:"-"`

	// Optimistic lock for concurrent question-array writes.
	Version int `gorm:"not null;default:0" json:"-"`

	// Relationships
	Recruiter *User `gorm:"foreignKey:RecruiterID" json:"-"`
	Candidate *User `gorm:"foreignKey:CandidateID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}

// JobRoles is the set of titles accepted for Interview.JobRole.
var JobRoles = map[string]bool{
	"Backend Developer":    true,
	"Frontend Developer":   true,
	"Full Stack Developer": true,
	"DevOps Engineer":      true,
	"Data Scientist":       true,
	"Mobile Developer":     true,
	"QA Engineer":          true,
	"UI/UX Designer":       true,
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/hireloop/hireloop/internal/database/models"
)

// Gateway is the boundary the lifecycle service depends on; tests swap in
// a stub.
type Gateway interface {
	GenerateQuestions(ctx context.Context, jobRole, description string) ([]GeneratedQuestion, error)
	AssessAnswer(ctx context.Context, input AssessmentInput) (*models.Assessment, error)
	RateInterview(ctx context.Context, questions []models.Question) (*Rating, error)
}

type GeneratedQuestion struct {
	QuestionText string `json:"questionText"`
}

type AssessmentInput struct {
	QuestionText string
	Description  string
	AnswerText   string
	JobRole      string
}

type Rating struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// GenerateQuestions asks the model for exactly five interview questions.
func (c *Client) GenerateQuestions(ctx context.Context, jobRole, description string) ([]GeneratedQuestion, error) {
	var sb strings.Builder
	sb.WriteString("You are an experienced technical interviewer.\n")
	sb.WriteString("Generate exactly 5 interview questions for the following position.\n\n")
	if jobRole != "" {
		sb.WriteString(fmt.Sprintf("Role: %s\n", jobRole))
	}
	sb.WriteString(fmt.Sprintf("Description:\n---\n%s\n---\n\n", description))
	sb.WriteString("Respond with ONLY a JSON array of objects of the form ")
	sb.WriteString(`[{"questionText": "..."}]. No prose, no code fences.`)

	reply, err := c.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var questions []GeneratedQuestion
	if err := decodeReply(reply, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// AssessAnswer scores a single answer. Score is clamped into [0,10] and an
// unrecognized sentiment is normalized to neutral, so a persisted assessment
// is always well-formed even when the model is sloppy.
func (c *Client) AssessAnswer(ctx context.Context, input AssessmentInput) (*models.Assessment, error) {
	var sb strings.Builder
	sb.WriteString("You are an expert interviewer assessing a candidate's answer.\n\n")
	if input.JobRole != "" {
		sb.WriteString(fmt.Sprintf("Role: %s\n", input.JobRole))
	}
	sb.WriteString(fmt.Sprintf("Position description:\n---\n%s\n---\n", input.Description))
	sb.WriteString(fmt.Sprintf("Question:\n---\n%s\n---\n", input.QuestionText))
	sb.WriteString(fmt.Sprintf("Answer:\n---\n%s\n---\n\n", input.AnswerText))
	sb.WriteString("Respond with ONLY a JSON object: ")
	sb.WriteString(`{"score": <0-10>, "keywords": [...], "sentiment": "positive"|"negative"|"neutral", "feedback": "..."}.`)

	reply, err := c.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var assessment models.Assessment
	if err := decodeReply(reply, &assessment); err != nil {
		return nil, err
	}

	assessment.Score = clampScore(assessment.Score)
	switch assessment.Sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		assessment.Sentiment = models.SentimentNeutral
	}
	if assessment.Keywords == nil {
		assessment.Keywords = []string{}
	}

	return &assessment, nil
}

// RateInterview folds the stored per-question assessments into one overall
// score and feedback pair.
func (c *Client) RateInterview(ctx context.Context, questions []models.Question) (*Rating, error) {
	summary, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("You are an expert interviewer producing a final rating.\n")
	sb.WriteString("Below are the interview questions, the candidate's answers and per-answer assessments as JSON:\n---\n")
	sb.Write(summary)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Respond with ONLY a JSON object: ")
	sb.WriteString(`{"score": <0-10>, "feedback": "..."}.`)

	reply, err := c.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var rating Rating
	if err := decodeReply(reply, &rating); err != nil {
		return nil, err
	}
	if rating.Feedback == "" {
		return nil, fmt.Errorf("%w: missing feedback", ErrBadResponse)
	}

	rating.Score = clampScore(rating.Score)
	return &rating, nil
}

// clampScore forces a score into [0,10] at one decimal of precision.
func clampScore(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return math.Round(score*10) / 10
}

var _ Gateway = (*Client)(nil)

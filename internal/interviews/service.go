package interviews

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/hireloop/internal/ai"
	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/mailer"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrQuestionsExist    = errors.New("questions already generated")
	ErrNotCandidate      = errors.New("email belongs to a non-candidate account")
	ErrNoAnswer          = errors.New("question has no answer")
	ErrConflict          = errors.New("interview was modified concurrently")
)

// Actor is the authenticated principal an operation runs as. Handlers build
// it from the request context so the service stays testable without HTTP.
type Actor struct {
	ID   uuid.UUID
	Role models.UserRole
}

// Service owns the interview status state machine and the side effects
// attached to each transition.
type Service struct {
	db      *gorm.DB
	gateway ai.Gateway
	mail    mailer.Mailer
	logger  *slog.Logger
}

func NewService(db *gorm.DB, gateway ai.Gateway, mail mailer.Mailer, logger *slog.Logger) *Service {
	return &Service{db: db, gateway: gateway, mail: mail, logger: logger}
}

type CreateInput struct {
	Title       string
	Description string
	JobRole     string
}

func (s *Service) Create(ctx context.Context, recruiterID uuid.UUID, input CreateInput) (*models.Interview, error) {
	interview := models.Interview{
		Title:       input.Title,
		Description: input.Description,
		JobRole:     input.JobRole,
		RecruiterID: recruiterID,
		Status:      models.StatusDraft,
		Questions:   []models.Question{},
	}

	if err := s.db.WithContext(ctx).Create(&interview).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

type ListParams struct {
	Status string
	Offset int
	Limit  int
}

// List returns the interviews visible to the actor: recruiters see the ones
// they created, candidates the ones they are invited to.
func (s *Service) List(ctx context.Context, actor Actor, params ListParams) ([]models.Interview, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Interview{})

	if actor.Role == models.RoleRecruiter {
		query = query.Where("recruiter_id = ?", actor.ID)
	} else {
		query = query.Where("candidate_id = ?", actor.ID)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var interviews []models.Interview
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&interviews).Error; err != nil {
		return nil, 0, err
	}

	return interviews, total, nil
}

// Get loads an interview scoped to the actor. An ownership miss reads the
// same as a missing row so existence is not leaked.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Interview, error) {
	query := s.db.WithContext(ctx)
	if actor.Role == models.RoleRecruiter {
		query = query.Where("id = ? AND recruiter_id = ?", id, actor.ID)
	} else {
		query = query.Where("id = ? AND candidate_id = ?", id, actor.ID)
	}

	var interview models.Interview
	if err := query.First(&interview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &interview, nil
}

type UpdateInput struct {
	Title       *string
	Description *string
	JobRole     *string
}

func (s *Service) Update(ctx context.Context, recruiterID, id uuid.UUID, input UpdateInput) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: recruiterID, Role: models.RoleRecruiter}, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
		interview.Title = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
		interview.Description = *input.Description
	}
	if input.JobRole != nil {
		updates["job_role"] = *input.JobRole
		interview.JobRole = *input.JobRole
	}
	if len(updates) == 0 {
		return interview, nil
	}

	if err := s.db.WithContext(ctx).Model(interview).Updates(updates).Error; err != nil {
		return nil, err
	}
	return interview, nil
}

// Delete removes the record permanently, bypassing gorm's soft delete.
func (s *Service) Delete(ctx context.Context, recruiterID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Unscoped().
		Where("id = ? AND recruiter_id = ?", id, recruiterID).
		Delete(&models.Interview{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Invite resolves or creates the candidate account and schedules the
// interview. Candidate creation and the interview update commit together;
// the email goes out after commit and a send failure surfaces even though
// the schedule is already persisted.
func (s *Service) Invite(ctx context.Context, recruiterID, id uuid.UUID, email string, at time.Time) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: recruiterID, Role: models.RoleRecruiter}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	var candidate models.User
	var tempPassword string
	created := false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("email = ?", email).First(&candidate).Error
		switch {
		case findErr == nil:
			if candidate.Role != models.RoleCandidate {
				return ErrNotCandidate
			}
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			tempPassword, err = auth.RandomToken(8)
			if err != nil {
				return err
			}
			hash, hashErr := auth.HashPassword(tempPassword)
			if hashErr != nil {
				return hashErr
			}
			verifyToken, tokErr := auth.RandomToken(24)
			if tokErr != nil {
				return tokErr
			}
			candidate = models.User{
				Email:             email,
				PasswordHash:      hash,
				Name:              email,
				Role:              models.RoleCandidate,
				IsVerified:        false,
				VerificationToken: verifyToken,
			}
			if createErr := tx.Create(&candidate).Error; createErr != nil {
				return createErr
			}
			created = true
		default:
			return findErr
		}

		updates := map[string]interface{}{
			"candidate_id":     candidate.ID,
			"scheduled_at":     at,
			"status":           models.StatusScheduled,
			"reminder_sent_at": nil,
		}
		return tx.Model(interview).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	interview.CandidateID = &candidate.ID
	interview.ScheduledAt = &at
	interview.Status = models.StatusScheduled
	interview.ReminderSentAt = nil

	var subject, body string
	if created {
		subject, body = mailer.InviteEmail(candidate.Name, interview.Title, tempPassword, at)
	} else {
		subject, body = mailer.ScheduleEmail(candidate.Name, interview.Title, at)
	}
	if err := s.mail.SendEmail(candidate.Email, subject, body); err != nil {
		return nil, err
	}

	return interview, nil
}

// Start moves a scheduled interview to in-progress. Calling it on an
// interview that is already in-progress is a no-op, not an error.
func (s *Service) Start(ctx context.Context, candidateID, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}

	switch interview.Status {
	case models.StatusInProgress:
		return interview, nil
	case models.StatusScheduled:
	default:
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(interview).
		Update("status", models.StatusInProgress).Error; err != nil {
		return nil, err
	}
	interview.Status = models.StatusInProgress
	return interview, nil
}

// GenerateQuestions replaces the question list wholesale from the gateway.
// A gateway failure is not an error here: the interview simply ends up with
// no questions and the caller decides what that means.
func (s *Service) GenerateQuestions(ctx context.Context, candidateID, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, ErrInvalidTransition
	}
	if len(interview.Questions) > 0 {
		return nil, ErrQuestionsExist
	}

	questions := []models.Question{}
	generated, genErr := s.gateway.GenerateQuestions(ctx, interview.JobRole, interview.Description)
	if genErr != nil {
		s.logger.Warn("question generation failed, storing empty list",
			"interview_id", interview.ID, "error", genErr)
	} else {
		for _, q := range generated {
			questions = append(questions, models.Question{QuestionText: q.QuestionText})
		}
	}

	if err := s.saveQuestions(ctx, interview, questions, nil); err != nil {
		return nil, err
	}
	return interview, nil
}

// SaveAnswer writes the answer text onto one question in place.
func (s *Service) SaveAnswer(ctx context.Context, candidateID, id uuid.UUID, index int, answer string) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, ErrInvalidTransition
	}
	if index < 0 || index >= len(interview.Questions) {
		return nil, ErrQuestionNotFound
	}

	questions := cloneQuestions(interview.Questions)
	questions[index].AnswerText = answer

	if err := s.saveQuestions(ctx, interview, questions, nil); err != nil {
		return nil, err
	}
	return interview, nil
}

// AssessAnswer asks the gateway for feedback on one answer and persists the
// assessment whole. A gateway failure leaves the interview untouched.
func (s *Service) AssessAnswer(ctx context.Context, candidateID, id uuid.UUID, index int, answer string) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, ErrInvalidTransition
	}
	if index < 0 || index >= len(interview.Questions) {
		return nil, ErrQuestionNotFound
	}

	questions := cloneQuestions(interview.Questions)
	if answer != "" {
		questions[index].AnswerText = answer
	}
	if questions[index].AnswerText == "" {
		return nil, ErrNoAnswer
	}

	assessment, err := s.gateway.AssessAnswer(ctx, ai.AssessmentInput{
		QuestionText: questions[index].QuestionText,
		Description:  interview.Description,
		AnswerText:   questions[index].AnswerText,
		JobRole:      interview.JobRole,
	})
	if err != nil {
		return nil, err
	}
	questions[index].Assessment = assessment

	if err := s.saveQuestions(ctx, interview, questions, nil); err != nil {
		return nil, err
	}
	return interview, nil
}

type AnswerInput struct {
	Index  int
	Answer string
}

// SubmitAnswers persists a batch of answers as given.
func (s *Service) SubmitAnswers(ctx context.Context, candidateID, id uuid.UUID, answers []AnswerInput) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, ErrInvalidTransition
	}

	questions := cloneQuestions(interview.Questions)
	for _, a := range answers {
		if a.Index < 0 || a.Index >= len(questions) {
			return nil, ErrQuestionNotFound
		}
		questions[a.Index].AnswerText = a.Answer
	}

	if err := s.saveQuestions(ctx, interview, questions, nil); err != nil {
		return nil, err
	}
	return interview, nil
}

// Rate asks the gateway for the overall score and completes the interview.
// On gateway failure nothing is written and the error is surfaced.
func (s *Service) Rate(ctx context.Context, candidateID, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: candidateID, Role: models.RoleCandidate}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, ErrInvalidTransition
	}

	rating, err := s.gateway.RateInterview(ctx, interview.Questions)
	if err != nil {
		return nil, err
	}

	extra := map[string]interface{}{
		"score":    rating.Score,
		"feedback": rating.Feedback,
		"status":   models.StatusCompleted,
	}
	if err := s.saveQuestions(ctx, interview, interview.Questions, extra); err != nil {
		return nil, err
	}

	interview.Score = &rating.Score
	interview.Feedback = rating.Feedback
	interview.Status = models.StatusCompleted
	return interview, nil
}

// Cancel is reachable from any non-completed state.
func (s *Service) Cancel(ctx context.Context, recruiterID, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.Get(ctx, Actor{ID: recruiterID, Role: models.RoleRecruiter}, id)
	if err != nil {
		return nil, err
	}
	if interview.Status == models.StatusCompleted {
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(interview).
		Update("status", models.StatusCancelled).Error; err != nil {
		return nil, err
	}
	interview.Status = models.StatusCancelled
	return interview, nil
}

// saveQuestions writes the question array (plus any extra columns) guarded
// by the interview's version. Two racing writers read the same version;
// only one conditional update lands, the other gets ErrConflict instead of
// silently dropping an assessment.
//
// The slice is marshaled by hand: gorm only runs serializers on struct
// field writes, so a []Question inside a map Updates would reach the driver
// unserialized.
func (s *Service) saveQuestions(ctx context.Context, interview *models.Interview, questions []models.Question, extra map[string]interface{}) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"questions": string(payload),
		"version":   interview.Version + 1,
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := s.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ? AND version = ?", interview.ID, interview.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}

	interview.Questions = questions
	interview.Version++
	return nil
}

func cloneQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	return out
}

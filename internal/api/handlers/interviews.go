package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hireloop/hireloop/internal/ai"
	"github.com/hireloop/hireloop/internal/api/dto"
	"github.com/hireloop/hireloop/internal/api/middleware"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/interviews"
)

type InterviewHandler struct {
	service *interviews.Service
}

func NewInterviewHandler(service *interviews.Service) *InterviewHandler {
	return &InterviewHandler{service: service}
}

func actorFrom(r *http.Request) interviews.Actor {
	return interviews.Actor{
		ID:   middleware.GetUserID(r.Context()),
		Role: models.UserRole(middleware.GetUserRole(r.Context())),
	}
}

// writeServiceError maps lifecycle service errors onto HTTP statuses. AI
// gateway failures surface as 502 so clients can tell "the model let us
// down" from "we broke".
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interviews.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Interview not found"})
	case errors.Is(err, interviews.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Question not found"})
	case errors.Is(err, interviews.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Operation not allowed in current status"})
	case errors.Is(err, interviews.ErrQuestionsExist):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Questions already generated"})
	case errors.Is(err, interviews.ErrConflict):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Interview was modified concurrently, retry"})
	case errors.Is(err, interviews.ErrNotCandidate):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email belongs to a non-candidate account"})
	case errors.Is(err, interviews.ErrNoAnswer):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Answer the question before requesting an assessment"})
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ai.ErrBadResponse):
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "AI assessment unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Server error"})
	}
}

func interviewID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// List handles GET /api/v1/interviews
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	results, total, err := h.service.List(r.Context(), actor, interviews.ListParams{
		Status: r.URL.Query().Get("status"),
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list interviews"})
		return
	}

	response := make([]dto.InterviewResponse, len(results))
	for i := range results {
		response[i] = dto.NewInterviewResponse(&results[i])
	}

	totalPages := int(total) / pagination.PerPage
	if int(total)%pagination.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

// Create handles POST /api/v1/interviews
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	interview, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), interviews.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		JobRole:     req.JobRole,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewInterviewResponse(interview))
}

// Get handles GET /api/v1/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	interview, err := h.service.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// Update handles PUT /api/v1/interviews/{id}
func (h *InterviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	var req dto.UpdateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	interview, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, interviews.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		JobRole:     req.JobRole,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// Delete handles DELETE /api/v1/interviews/{id}
func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Interview deleted"})
}

// Invite handles POST /api/v1/interviews/{id}/invite
func (h *InterviewHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	var req dto.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	interview, err := h.service.Invite(r.Context(), middleware.GetUserID(r.Context()), id, req.Email, req.ScheduledAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// Start handles POST /api/v1/interviews/{id}/start
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	interview, err := h.service.Start(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// GenerateQuestions handles POST /api/v1/interviews/{id}/questions/generate
func (h *InterviewHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	interview, err := h.service.GenerateQuestions(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

func questionIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	return idx, err == nil
}

// SaveAnswer handles PUT /api/v1/interviews/{id}/questions/{index}/answer
func (h *InterviewHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}
	idx, ok := questionIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question index"})
		return
	}

	var req dto.SaveAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	interview, err := h.service.SaveAnswer(r.Context(), middleware.GetUserID(r.Context()), id, idx, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// AssessAnswer handles POST /api/v1/interviews/{id}/questions/{index}/assess
func (h *InterviewHandler) AssessAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}
	idx, ok := questionIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question index"})
		return
	}

	var req dto.AssessAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	interview, err := h.service.AssessAnswer(r.Context(), middleware.GetUserID(r.Context()), id, idx, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// SubmitAnswers handles POST /api/v1/interviews/{id}/answers
func (h *InterviewHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	var req dto.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	answers := make([]interviews.AnswerInput, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = interviews.AnswerInput{Index: a.Index, Answer: a.Answer}
	}

	interview, err := h.service.SubmitAnswers(r.Context(), middleware.GetUserID(r.Context()), id, answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// Rate handles POST /api/v1/interviews/{id}/rate
func (h *InterviewHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	interview, err := h.service.Rate(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

// Cancel handles POST /api/v1/interviews/{id}/cancel
func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid interview ID"})
		return
	}

	interview, err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInterviewResponse(interview))
}

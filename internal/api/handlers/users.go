package handlers

import (
	"net/http"

	"github.com/hireloop/hireloop/internal/api/dto"
	"github.com/hireloop/hireloop/internal/auth"
)

type UserHandler struct {
	authService *auth.Service
}

func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// ListCandidates handles GET /api/v1/candidates (recruiter only).
func (h *UserHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListCandidates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list candidates"})
		return
	}

	response := make([]dto.UserDTO, len(users))
	for i := range users {
		response[i] = userDTO(&users[i])
	}

	writeJSON(w, http.StatusOK, response)
}

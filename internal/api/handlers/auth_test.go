package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hireloop/hireloop/internal/api/dto"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
			Name:     "Alice",
			Role:     "recruiter",
		})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var user dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &user)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "recruiter", user.Role)
		assert.False(t, user.IsVerified)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
			Name:     "Alice",
			Role:     "recruiter",
		})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			Email:    "not-an-email",
			Password: "short",
			Role:     "admin",
		})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Contains(t, resp.Details, "email")
		assert.Contains(t, resp.Details, "password")
		assert.Contains(t, resp.Details, "name")
		assert.Contains(t, resp.Details, "role")
	})
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	user := testutil.CreateTestUser(t, srv.DB, models.RoleRecruiter)

	t.Run("success sets cookie", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
			Email:    user.Email,
			Password: "testpassword123",
		})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.Email, resp.User.Email)

		cookies := rr.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "token", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
			Email:    user.Email,
			Password: "wrong-password",
		})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestVerifyEmailEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Register through the API so a verification token exists.
	req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "password123",
		Name:     "Bob",
		Role:     "candidate",
	})
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var stored models.User
	require.NoError(t, srv.DB.Where("email = ?", "bob@example.com").First(&stored).Error)
	require.NotEmpty(t, stored.VerificationToken)

	// Unverified accounts cannot log in yet.
	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "password123",
	})
	rr = httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	req = testutil.UnauthenticatedRequest(t, http.MethodGet,
		"/api/v1/auth/verify-email?token="+stored.VerificationToken, nil)
	rr = httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "password123",
	})
	rr = httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	t.Run("unknown token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet,
			"/api/v1/auth/verify-email?token=deadbeef", nil)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	srv := newTestServer(t)
	user := testutil.CreateTestUser(t, srv.DB, models.RoleCandidate)

	req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/forgot-password",
		dto.ForgotPasswordRequest{Email: user.Email})
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var stored models.User
	require.NoError(t, srv.DB.First(&stored, user.ID).Error)
	require.NotEmpty(t, stored.ResetPasswordToken)

	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/reset-password",
		dto.ResetPasswordRequest{Token: stored.ResetPasswordToken, Password: "new-password-1"})
	rr = httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// New password works.
	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    user.Email,
		Password: "new-password-1",
	})
	rr = httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	t.Run("unknown email still returns 200", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/forgot-password",
			dto.ForgotPasswordRequest{Email: "nobody@example.com"})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	user := testutil.CreateTestUser(t, srv.DB, models.RoleRecruiter)

	t.Run("without token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("with token", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil, srv.tokenFor(t, user))
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("with cookie", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: srv.tokenFor(t, user)})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("health reports the database", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Status   string            `json:"status"`
			Services map[string]string `json:"services"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Services["database"])
		// No redis client wired, so it is absent rather than unhealthy.
		assert.NotContains(t, resp.Services, "redis")
	})

	t.Run("ready", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/ready", nil)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestListCandidatesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	recruiter := testutil.CreateTestUser(t, srv.DB, models.RoleRecruiter)
	candidate := testutil.CreateTestUser(t, srv.DB, models.RoleCandidate)

	t.Run("recruiter can list", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/candidates", nil, srv.tokenFor(t, recruiter))
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp []dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, candidate.ID.String(), resp[0].ID)
	})

	t.Run("candidate is forbidden", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/candidates", nil, srv.tokenFor(t, candidate))
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

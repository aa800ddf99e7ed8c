package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/mailer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Interview{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FakeMailer records every send instead of dialing SMTP.
type FakeMailer struct {
	mu    sync.Mutex
	Sent  []SentEmail
	Fail  bool
	Error error
}

type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

func (m *FakeMailer) SendEmail(to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return m.Error
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *FakeMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

var _ mailer.Mailer = (*FakeMailer)(nil)

// TestContext bundles the pieces most handler and service tests need.
type TestContext struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Mailer     *FakeMailer
	Logger     *slog.Logger
}

func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return &TestContext{
		DB:         SetupTestDB(t),
		JWTService: auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour),
		Mailer:     &FakeMailer{},
		Logger:     NewTestLogger(),
	}
}

func (tc *TestContext) Cleanup() {
	sqlDB, err := tc.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a verified user with the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsVerified:   true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestInterview creates a draft interview owned by the recruiter.
func CreateTestInterview(t *testing.T, db *gorm.DB, recruiter *models.User) *models.Interview {
	t.Helper()

	interview := &models.Interview{
		Base:        models.Base{ID: uuid.New()},
		Title:       "Test Interview",
		Description: "A test interview",
		JobRole:     "Backend Developer",
		RecruiterID: recruiter.ID,
		Status:      models.StatusDraft,
		Questions:   []models.Question{},
	}

	if err := db.Create(interview).Error; err != nil {
		t.Fatalf("failed to create test interview: %v", err)
	}

	return interview
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

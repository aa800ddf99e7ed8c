package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/hireloop/hireloop/internal/ai"
	"github.com/hireloop/hireloop/internal/api"
	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/interviews"
	"github.com/hireloop/hireloop/internal/testutil"
)

// stubGateway stands in for the AI client behind the full router.
type stubGateway struct {
	questions  []ai.GeneratedQuestion
	genErr     error
	assessment *models.Assessment
	assessErr  error
	rating     *ai.Rating
	rateErr    error
}

func (g *stubGateway) GenerateQuestions(ctx context.Context, jobRole, description string) ([]ai.GeneratedQuestion, error) {
	return g.questions, g.genErr
}

func (g *stubGateway) AssessAnswer(ctx context.Context, input ai.AssessmentInput) (*models.Assessment, error) {
	return g.assessment, g.assessErr
}

func (g *stubGateway) RateInterview(ctx context.Context, questions []models.Question) (*ai.Rating, error) {
	return g.rating, g.rateErr
}

var _ ai.Gateway = (*stubGateway)(nil)

type testServer struct {
	*testutil.TestContext
	router  http.Handler
	gateway *stubGateway
}

// newTestServer wires the full router against an in-memory database with
// the AI gateway stubbed out.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tc := testutil.NewTestContext(t)
	t.Cleanup(tc.Cleanup)

	gateway := &stubGateway{}
	authService := auth.NewService(tc.DB, tc.JWTService, tc.Mailer, tc.Logger)
	interviewService := interviews.NewService(tc.DB, gateway, tc.Mailer, tc.Logger)

	router := api.NewRouter(api.RouterConfig{
		DB:               tc.DB,
		Logger:           tc.Logger,
		JWTService:       tc.JWTService,
		AuthService:      authService,
		InterviewService: interviewService,
	})

	return &testServer{
		TestContext: tc,
		router:      router,
		gateway:     gateway,
	}
}

func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	return testutil.GenerateTestToken(t, s.JWTService, user)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "6f1c2a52-5d0e-4f8e-9a43-0a6c1f0f7d11"

type staticUsers struct{}

func (staticUsers) GetUserByID(_ context.Context, userID string) (*user.User, error) {
	if userID == testUserID {
		return &user.User{ID: testUserID, Login: "janedoe", HashToken: "hash-token"}, nil
	}
	return nil, user.ErrUserNotFound
}

func (staticUsers) GetUserByLoginOrEmail(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) RunAutoSavings(_ context.Context, date time.Time) (domain.AutoSaveResult, error) {
	f.calls++
	return domain.AutoSaveResult{Day: date.Day()}, f.err
}

func newTestServer(t *testing.T, health HealthFunc) (*Server, string) {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	authService := auth.NewAuthService(nil, staticUsers{}, auth.NewSessionManager(), jwtManager, auth.NewAuthenticator("FinanceLedger"))

	categories := &infrastructure.MockCategoryRepository{Categories: []domain.Category{
		{ID: "cat-food", Name: "Food", Type: domain.TransactionTypeExpense, IsActive: true},
	}}
	categoryService := application.NewCategoryService(categories)
	transactionService := application.NewTransactionService(&infrastructure.MockTransactionRepository{}, categoryService)
	savingsService := application.NewSavingsService(&infrastructure.MockSavingsGoalRepository{})
	reminderService := application.NewReminderService(&infrastructure.MockReminderRepository{})

	server := &Server{
		authHandler:        auth.NewHandler(authService),
		userHandler:        user.NewHandler(staticUserService{}, auth.UserIDFromContext),
		authService:        authService,
		transactionHandler: interfaces.NewTransactionHandler(transactionService, interfaces.RespondJSON, interfaces.RespondError),
		categoryHandler:    interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError),
		savingsHandler:     interfaces.NewSavingsHandler(savingsService, interfaces.RespondJSON, interfaces.RespondError),
		reminderHandler:    interfaces.NewReminderHandler(reminderService, interfaces.RespondJSON, interfaces.RespondError),
		internalHandler:    interfaces.NewInternalHandler(savingsService, interfaces.RespondJSON, interfaces.RespondError),
		cronSecret:         "cron-secret",
		health:             health,
	}
	server.RegisterRoutes()

	token, err := jwtManager.GenerateAccessJWT(testUserID)
	require.NoError(t, err)
	return server, token
}

type staticUserService struct{ staticUsers }

func (staticUserService) Register(context.Context, string, string, string) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (staticUserService) ChangePasswordWithOldPassword(context.Context, string, string, string) error {
	return errors.New("not implemented")
}

func upHealth(context.Context) map[string]string {
	return map[string]string{"status": "up"}
}

func TestServer_PublicRoutes(t *testing.T) {
	server, _ := newTestServer(t, upHealth)

	tests := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
	}{
		{name: "ready", method: http.MethodGet, target: "/api/ready", expectedStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, target: "/health", expectedStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, target: "/api/unknown", expectedStatus: http.StatusNotFound},
		{name: "protected without token", method: http.MethodGet, target: "/api/protected/transactions", expectedStatus: http.StatusUnauthorized},
		{name: "refresh without cookie", method: http.MethodPut, target: "/api/refresh/token", expectedStatus: http.StatusUnauthorized},
		{name: "cron without secret", method: http.MethodGet, target: "/internal/auto-savings/run", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestServer_HealthDown(t *testing.T) {
	server, _ := newTestServer(t, func(context.Context) map[string]string {
		return map[string]string{"status": "down"}
	})

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServer_TransactionFlow(t *testing.T) {
	server, token := newTestServer(t, upHealth)

	create := httptest.NewRequest(http.MethodPost, "/api/protected/transactions",
		strings.NewReader(`{"title":"Lunch","amount":"12.50","type":"expense","category":" food "}`))
	create.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, create)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Food", created["category"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	summary := httptest.NewRequest(http.MethodGet, "/api/protected/transactions/summary", nil)
	summary.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, summary)
	assert.Equal(t, http.StatusOK, rr.Code)

	remove := httptest.NewRequest(http.MethodDelete, "/api/protected/transactions/"+id, nil)
	remove.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, remove)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestServer_CronEndpoint(t *testing.T) {
	server, _ := newTestServer(t, upHealth)

	req := httptest.NewRequest(http.MethodGet, "/internal/auto-savings/run", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRunAutoSavingsJob(t *testing.T) {
	runner := &fakeRunner{}
	runAutoSavingsJob(runner, zerolog.Nop(), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, runner.calls)

	runner.err = errors.New("store down")
	runAutoSavingsJob(runner, zerolog.Nop(), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, runner.calls)
}

func TestStartAutoSavingsScheduler_InvalidSpec(t *testing.T) {
	_, err := StartAutoSavingsScheduler("not a cron spec", &fakeRunner{}, zerolog.Nop())
	assert.Error(t, err)
}

package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

// HealthFunc reports the state of the backing store.
type HealthFunc func(ctx context.Context) map[string]string

type Server struct {
	router             http.Handler
	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	transactionHandler *interfaces.TransactionHandler
	categoryHandler    *interfaces.CategoryHandler
	savingsHandler     *interfaces.SavingsHandler
	reminderHandler    *interfaces.ReminderHandler
	internalHandler    *interfaces.InternalHandler
	cronSecret         string
	health             HealthFunc
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	interfaces.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	interfaces.RespondJSON(w, status, stats)
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.authService.JWTAccessTokenMiddleware()(h)
}

func (s *Server) RegisterRoutes() {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", s.userHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.HandleLogout)
	mux.HandleFunc("POST /api/auth/2fa/verify", s.authHandler.HandleVerifyTwoFactor)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Refresh token route, authenticated with the refresh cookie
	mux.Handle("PUT /api/refresh/token",
		s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Account
	mux.Handle("GET /api/protected/profile", s.protected(s.userHandler.HandleGetUserProfile))
	mux.Handle("POST /api/protected/change-password", s.protected(s.userHandler.HandleChangePassword))
	mux.Handle("POST /api/protected/2fa/register", s.protected(s.authHandler.HandleRegisterTwoFactor))
	mux.Handle("POST /api/protected/2fa/verify-registration", s.protected(s.authHandler.HandleVerifyTwoFactorCode))
	mux.Handle("DELETE /api/protected/2fa/disable", s.protected(s.authHandler.HandleDisableTwoFactor))

	// TRANSACTIONS API
	mux.Handle("POST /api/protected/transactions", s.protected(s.transactionHandler.CreateTransaction))
	mux.Handle("GET /api/protected/transactions", s.protected(s.transactionHandler.GetTransactions))
	mux.Handle("GET /api/protected/transactions/summary", s.protected(s.transactionHandler.GetSummary))
	mux.Handle("PUT /api/protected/transactions/{id}", s.protected(s.transactionHandler.UpdateTransaction))
	mux.Handle("DELETE /api/protected/transactions/{id}", s.protected(s.transactionHandler.DeleteTransaction))

	// CATEGORIES API
	mux.Handle("GET /api/protected/categories", s.protected(s.categoryHandler.GetCategories))
	mux.Handle("POST /api/protected/categories", s.protected(s.categoryHandler.CreateCategory))
	mux.Handle("PUT /api/protected/categories/{id}", s.protected(s.categoryHandler.UpdateCategory))

	// SAVINGS API
	mux.Handle("POST /api/protected/savings", s.protected(s.savingsHandler.CreateGoal))
	mux.Handle("GET /api/protected/savings", s.protected(s.savingsHandler.GetGoals))
	mux.Handle("PUT /api/protected/savings/{id}/progress", s.protected(s.savingsHandler.UpdateGoalProgress))
	mux.Handle("DELETE /api/protected/savings/{id}", s.protected(s.savingsHandler.DeleteGoal))

	// REMINDERS API
	mux.Handle("POST /api/protected/reminders", s.protected(s.reminderHandler.CreateReminder))
	mux.Handle("GET /api/protected/reminders", s.protected(s.reminderHandler.GetReminders))
	mux.Handle("GET /api/protected/reminders/upcoming", s.protected(s.reminderHandler.GetUpcomingReminders))
	mux.Handle("PUT /api/protected/reminders/{id}/paid", s.protected(s.reminderHandler.MarkAsPaid))
	mux.Handle("DELETE /api/protected/reminders/{id}", s.protected(s.reminderHandler.DeleteReminder))

	// Internal cron trigger
	cronGuard := interfaces.CronSecretMiddleware(s.cronSecret, interfaces.RespondError)
	runAutoSavings := cronGuard(http.HandlerFunc(s.internalHandler.RunAutoSavings))
	mux.Handle("GET /internal/auto-savings/run", runAutoSavings)
	mux.Handle("POST /internal/auto-savings/run", runAutoSavings)

	mux.HandleFunc("/", notFoundHandler)

	s.router = mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

package interfaces

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

const CronSecretHeader = "X-Cron-Secret"

type AutoSavingsRunner interface {
	RunAutoSavings(ctx context.Context, date time.Time) (domain.AutoSaveResult, error)
}

// InternalHandler serves endpoints meant for the scheduler, not for users.
type InternalHandler struct {
	responder
	runner AutoSavingsRunner
	now    func() time.Time
}

func NewInternalHandler(runner AutoSavingsRunner, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *InternalHandler {
	if runner == nil {
		panic("Runner must not be nil")
	}
	return &InternalHandler{
		responder: newResponder(respondJSON, respondError),
		runner:    runner,
		now:       time.Now,
	}
}

func (h *InternalHandler) RunAutoSavings(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.RunAutoSavings(r.Context(), h.now().UTC())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Auto savings executed",
		"day":            result.Day,
		"processedGoals": result.ProcessedGoals,
		"updatedGoals":   result.UpdatedGoals,
	})
}

// CronSecretMiddleware accepts the shared secret either as a bearer token or
// in the X-Cron-Secret header.
func CronSecretMiddleware(secret string, respondError RespondErrorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				respondError(w, http.StatusInternalServerError, "CRON_SECRET is not configured")
				return
			}

			provided := ""
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				provided = strings.TrimPrefix(authHeader, "Bearer ")
			}
			if provided == "" {
				provided = r.Header.Get(CronSecretHeader)
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				respondError(w, http.StatusUnauthorized, "Unauthorized cron request")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

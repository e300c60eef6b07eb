package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type SavingsServiceInterface interface {
	CreateGoal(ctx context.Context, userID string, payload domain.Payload) (*domain.SavingsGoal, error)
	GetGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error)
	UpdateGoalProgress(ctx context.Context, id, userID string, amount any) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id, userID string) error
}

type SavingsHandler struct {
	responder
	service SavingsServiceInterface
}

func NewSavingsHandler(service SavingsServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *SavingsHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &SavingsHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *SavingsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	goal, err := h.service.CreateGoal(r.Context(), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, goal)
}

func (h *SavingsHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.service.GetGoals(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goals)
}

// UpdateGoalProgress expects {"amount": <signed number>}.
func (h *SavingsHandler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	goal, err := h.service.UpdateGoalProgress(r.Context(), r.PathValue("id"), userID, payload["amount"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

func (h *SavingsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteGoal(r.Context(), r.PathValue("id"), userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondNoContent(w)
}

package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, userID string, payload domain.Payload) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id, userID string, payload domain.Payload) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id, userID string) error
	GetSummary(ctx context.Context, userID, month string) (domain.Summary, error)
}

type TransactionHandler struct {
	responder
	service TransactionServiceInterface
}

func NewTransactionHandler(service TransactionServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *TransactionHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &TransactionHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

// summaryResponse converts the exact sums to JSON numbers at the boundary.
type summaryResponse struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	transactions, err := h.service.GetTransactions(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	transaction, err := h.service.UpdateTransaction(r.Context(), r.PathValue("id"), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), r.PathValue("id"), userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondNoContent(w)
}

func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID, r.URL.Query().Get("month"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summaryResponse{
		TotalIncome:  summary.TotalIncome.InexactFloat64(),
		TotalExpense: summary.TotalExpense.InexactFloat64(),
		Balance:      summary.Balance.InexactFloat64(),
	})
}

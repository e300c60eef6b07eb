package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context, userID string) (domain.GroupedCategories, error)
	CreateCategory(ctx context.Context, userID string, payload domain.Payload) (domain.CategoryDTO, error)
	UpdateCategory(ctx context.Context, id, userID string, payload domain.Payload) (domain.CategoryDTO, error)
}

type CategoryHandler struct {
	responder
	service CategoryServiceInterface
}

func NewCategoryHandler(service CategoryServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &CategoryHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	categories, err := h.service.GetCategories(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), r.PathValue("id"), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

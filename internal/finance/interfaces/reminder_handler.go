package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type ReminderServiceInterface interface {
	CreateReminder(ctx context.Context, userID string, payload domain.Payload) (*domain.Reminder, error)
	GetReminders(ctx context.Context, userID string) ([]domain.Reminder, error)
	GetUpcomingReminders(ctx context.Context, userID string) ([]domain.Reminder, error)
	MarkAsPaid(ctx context.Context, id, userID string) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, id, userID string) error
}

type ReminderHandler struct {
	responder
	service ReminderServiceInterface
}

func NewReminderHandler(service ReminderServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *ReminderHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &ReminderHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	reminder, err := h.service.CreateReminder(r.Context(), userID, payload)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	reminders, err := h.service.GetReminders(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) GetUpcomingReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	reminders, err := h.service.GetUpcomingReminders(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	reminder, err := h.service.MarkAsPaid(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReminder(r.Context(), r.PathValue("id"), userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondNoContent(w)
}

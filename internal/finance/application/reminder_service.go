package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

const upcomingWindow = 24 * time.Hour

type ReminderService struct {
	repo domain.ReminderRepository
	now  func() time.Time
}

func NewReminderService(repo domain.ReminderRepository) *ReminderService {
	return &ReminderService{repo: repo, now: time.Now}
}

func (s *ReminderService) CreateReminder(ctx context.Context, userID string, payload domain.Payload) (*domain.Reminder, error) {
	if payload == nil {
		return nil, financeErrors.ErrInvalidRequest
	}
	for _, key := range []string{"title", "amount", "dueDate", "type"} {
		if !payload.Has(key) {
			return nil, financeErrors.ErrMissingFields
		}
	}

	title, err := normalizeTitle(payload["title"])
	if err != nil {
		return nil, err
	}
	amount, err := domain.NormalizeAmount(payload["amount"])
	if err != nil {
		return nil, err
	}
	dueDate, err := domain.ParseISODate(payload["dueDate"])
	if err != nil {
		return nil, err
	}
	reminderType, err := domain.NormalizeType(payload["type"])
	if err != nil {
		return nil, err
	}
	var note *string
	if payload.Has("note") {
		if note, err = normalizeNote(payload["note"]); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	reminder := &domain.Reminder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Amount:    amount,
		Type:      reminderType,
		DueDate:   dueDate,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, financeErrors.Store(err)
	}
	return reminder, nil
}

func (s *ReminderService) GetReminders(ctx context.Context, userID string) ([]domain.Reminder, error) {
	reminders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if reminders == nil {
		return []domain.Reminder{}, nil
	}
	return reminders, nil
}

// GetUpcomingReminders lists unpaid reminders due within the next day,
// overdue ones included.
func (s *ReminderService) GetUpcomingReminders(ctx context.Context, userID string) ([]domain.Reminder, error) {
	reminders, err := s.repo.FindUpcoming(ctx, userID, s.now().Add(upcomingWindow))
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if reminders == nil {
		return []domain.Reminder{}, nil
	}
	return reminders, nil
}

func (s *ReminderService) MarkAsPaid(ctx context.Context, id, userID string) (*domain.Reminder, error) {
	reminder, err := s.repo.MarkPaid(ctx, id, userID)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if reminder == nil {
		return nil, financeErrors.ErrReminderNotFound
	}
	return reminder, nil
}

func (s *ReminderService) DeleteReminder(ctx context.Context, id, userID string) error {
	if _, err := s.repo.Delete(ctx, id, userID); err != nil {
		return financeErrors.Store(err)
	}
	return nil
}

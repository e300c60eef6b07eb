package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type MockReminderRepository struct {
	mu        sync.Mutex
	Reminders []domain.Reminder
	Err       error
}

func (m *MockReminderRepository) Create(_ context.Context, reminder *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Reminders = append(m.Reminders, *reminder)
	return nil
}

func (m *MockReminderRepository) filter(keep func(domain.Reminder) bool) []domain.Reminder {
	var reminders []domain.Reminder
	for _, reminder := range m.Reminders {
		if keep(reminder) {
			reminders = append(reminders, reminder)
		}
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
	return reminders
}

func (m *MockReminderRepository) FindByUser(_ context.Context, userID string) ([]domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filter(func(r domain.Reminder) bool { return r.UserID == userID }), nil
}

func (m *MockReminderRepository) FindUpcoming(_ context.Context, userID string, before time.Time) ([]domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filter(func(r domain.Reminder) bool {
		return r.UserID == userID && !r.IsPaid && !r.DueDate.After(before)
	}), nil
}

func (m *MockReminderRepository) MarkPaid(_ context.Context, id, userID string) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Reminders {
		if m.Reminders[i].ID == id && m.Reminders[i].UserID == userID {
			m.Reminders[i].IsPaid = true
			m.Reminders[i].UpdatedAt = time.Now().UTC()
			updated := m.Reminders[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (m *MockReminderRepository) Delete(_ context.Context, id, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	for i, reminder := range m.Reminders {
		if reminder.ID == id && reminder.UserID == userID {
			m.Reminders = append(m.Reminders[:i], m.Reminders[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

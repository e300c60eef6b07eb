package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminderService(repo *infrastructure.MockReminderRepository) *ReminderService {
	service := NewReminderService(repo)
	service.now = func() time.Time { return fixedNow }
	return service
}

func reminderDue(id string, due time.Time, paid bool) domain.Reminder {
	return domain.Reminder{
		ID:      id,
		UserID:  userID,
		Title:   id,
		Amount:  decimal.NewFromInt(10),
		Type:    domain.TransactionTypeExpense,
		DueDate: due,
		IsPaid:  paid,
	}
}

func TestCreateReminder(t *testing.T) {
	repo := &infrastructure.MockReminderRepository{}
	service := newReminderService(repo)

	reminder, err := service.CreateReminder(context.Background(), userID, domain.Payload{
		"title": "Insurance", "amount": "89.90", "dueDate": "2026-04-01", "type": "expense", "note": "yearly",
	})
	require.NoError(t, err)

	assert.Equal(t, "89.9", reminder.Amount.String())
	assert.Equal(t, "yearly", *reminder.Note)
	assert.False(t, reminder.IsPaid)
	assert.Len(t, repo.Reminders, 1)
}

func TestCreateReminder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload domain.Payload
		kind    financeErrors.Kind
	}{
		{"missing type", domain.Payload{"title": "x", "amount": 1, "dueDate": "2026-04-01"}, financeErrors.KindMissingFields},
		{"bad amount", domain.Payload{"title": "x", "amount": "ten", "dueDate": "2026-04-01", "type": "expense"}, financeErrors.KindInvalidAmount},
		{"bad due date", domain.Payload{"title": "x", "amount": 1, "dueDate": "2026-04-31", "type": "expense"}, financeErrors.KindInvalidDate},
		{"bad type", domain.Payload{"title": "x", "amount": 1, "dueDate": "2026-04-01", "type": "bill"}, financeErrors.KindInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newReminderService(&infrastructure.MockReminderRepository{}).CreateReminder(context.Background(), userID, tt.payload)
			assert.Equal(t, tt.kind, financeErrors.KindOf(err))
		})
	}
}

func TestGetUpcomingReminders_WindowIsOneDay(t *testing.T) {
	repo := &infrastructure.MockReminderRepository{Reminders: []domain.Reminder{
		reminderDue("edge", fixedNow.Add(24*time.Hour), false),
		reminderDue("beyond", fixedNow.Add(24*time.Hour+time.Second), false),
		reminderDue("overdue", fixedNow.Add(-time.Hour), false),
		reminderDue("paid", fixedNow.Add(time.Hour), true),
	}}
	service := newReminderService(repo)

	reminders, err := service.GetUpcomingReminders(context.Background(), userID)
	require.NoError(t, err)

	var ids []string
	for _, r := range reminders {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"overdue", "edge"}, ids)
}

func TestGetReminders_EmptyIsNotNil(t *testing.T) {
	reminders, err := newReminderService(&infrastructure.MockReminderRepository{}).GetReminders(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, reminders)
	assert.Empty(t, reminders)
}

func TestMarkAsPaid(t *testing.T) {
	repo := &infrastructure.MockReminderRepository{Reminders: []domain.Reminder{reminderDue("r-1", fixedNow, false)}}
	service := newReminderService(repo)

	_, err := service.MarkAsPaid(context.Background(), "r-1", otherUserID)
	assert.ErrorIs(t, err, financeErrors.ErrReminderNotFound)

	reminder, err := service.MarkAsPaid(context.Background(), "r-1", userID)
	require.NoError(t, err)
	assert.True(t, reminder.IsPaid)
}

func TestDeleteReminder_StoreError(t *testing.T) {
	service := newReminderService(&infrastructure.MockReminderRepository{Err: errors.New("down")})

	err := service.DeleteReminder(context.Background(), "r-1", userID)
	assert.Equal(t, financeErrors.KindStoreError, financeErrors.KindOf(err))
}

package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Reminder struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	DueDate   time.Time       `json:"dueDate"`
	Note      *string         `json:"note"`
	IsPaid    bool            `json:"isPaid"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	FindByUser(ctx context.Context, userID string) ([]Reminder, error)
	FindUpcoming(ctx context.Context, userID string, before time.Time) ([]Reminder, error)
	MarkPaid(ctx context.Context, id, userID string) (*Reminder, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
}

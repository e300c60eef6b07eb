package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinAutoSaveDay = 1
	MaxAutoSaveDay = 28
)

type SavingsGoal struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Title           string           `json:"title"`
	TargetAmount    decimal.Decimal  `json:"targetAmount"`
	CurrentAmount   decimal.Decimal  `json:"currentAmount"`
	Deadline        time.Time        `json:"deadline"`
	AutoSaveDay     *int             `json:"autoSaveDay"`
	MonthlyAmount   *decimal.Decimal `json:"monthlyAmount"`
	LastAutoSavedOn *time.Time       `json:"lastAutoSavedOn,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// AutoSaveResult summarizes one accrual run.
type AutoSaveResult struct {
	Day            int `json:"day"`
	ProcessedGoals int `json:"processedGoals"`
	UpdatedGoals   int `json:"updatedGoals"`
}

type SavingsGoalRepository interface {
	Create(ctx context.Context, goal *SavingsGoal) error
	FindByUser(ctx context.Context, userID string) ([]SavingsGoal, error)
	FindOne(ctx context.Context, id, userID string) (*SavingsGoal, error)
	UpdateCurrentAmount(ctx context.Context, id string, amount decimal.Decimal) (*SavingsGoal, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
	// FindDueForAutoSave returns goals with AutoSaveDay == day, a monthly
	// amount set, and no accrual recorded on the given date yet.
	FindDueForAutoSave(ctx context.Context, day int, on time.Time) ([]SavingsGoal, error)
	// AccrueMonthly adds amount to the goal and records the accrual date. It
	// reports false when another run already accrued the goal on that date.
	AccrueMonthly(ctx context.Context, id string, amount decimal.Decimal, on time.Time) (bool, error)
}

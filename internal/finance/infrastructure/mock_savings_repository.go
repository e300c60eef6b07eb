package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type MockSavingsGoalRepository struct {
	mu    sync.Mutex
	Goals []domain.SavingsGoal
	Err   error
}

func (m *MockSavingsGoalRepository) Create(_ context.Context, goal *domain.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Goals = append(m.Goals, *goal)
	return nil
}

func (m *MockSavingsGoalRepository) FindByUser(_ context.Context, userID string) ([]domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var goals []domain.SavingsGoal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
	return goals, nil
}

func (m *MockSavingsGoalRepository) FindOne(_ context.Context, id, userID string) (*domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, goal := range m.Goals {
		if goal.ID == id && goal.UserID == userID {
			found := goal
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockSavingsGoalRepository) UpdateCurrentAmount(_ context.Context, id string, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Goals {
		if m.Goals[i].ID == id {
			m.Goals[i].CurrentAmount = amount
			m.Goals[i].UpdatedAt = time.Now().UTC()
			updated := m.Goals[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (m *MockSavingsGoalRepository) Delete(_ context.Context, id, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	for i, goal := range m.Goals {
		if goal.ID == id && goal.UserID == userID {
			m.Goals = append(m.Goals[:i], m.Goals[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func accruedOn(goal domain.SavingsGoal, on time.Time) bool {
	return goal.LastAutoSavedOn != nil && goal.LastAutoSavedOn.Equal(on)
}

func (m *MockSavingsGoalRepository) FindDueForAutoSave(_ context.Context, day int, on time.Time) ([]domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var due []domain.SavingsGoal
	for _, goal := range m.Goals {
		if goal.AutoSaveDay == nil || *goal.AutoSaveDay != day || goal.MonthlyAmount == nil {
			continue
		}
		if accruedOn(goal, on) {
			continue
		}
		due = append(due, goal)
	}
	return due, nil
}

func (m *MockSavingsGoalRepository) AccrueMonthly(_ context.Context, id string, amount decimal.Decimal, on time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for i := range m.Goals {
		goal := &m.Goals[i]
		if goal.ID != id {
			continue
		}
		if accruedOn(*goal, on) || goal.CurrentAmount.Add(amount).GreaterThan(goal.TargetAmount) {
			return false, nil
		}
		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		accrued := on
		goal.LastAutoSavedOn = &accrued
		goal.UpdatedAt = time.Now().UTC()
		return true, nil
	}
	return false, nil
}

package application

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrGoalFieldsRequired  = financeErrors.New(financeErrors.KindMissingFields, "Title, target amount, and deadline are required")
	ErrInvalidAutoSaveDay  = financeErrors.NewValidationError("autoSaveDay must be between 1 and 28")
	ErrProgressNotNumber   = financeErrors.New(financeErrors.KindInvalidAmount, "Amount must be a number")
	ErrNegativeProgress    = financeErrors.NewValidationError("Current amount cannot be negative")
	ErrProgressAboveTarget = financeErrors.NewValidationError("Current amount cannot exceed target amount")
)

type SavingsService struct {
	repo domain.SavingsGoalRepository
	now  func() time.Time
}

func NewSavingsService(repo domain.SavingsGoalRepository) *SavingsService {
	return &SavingsService{repo: repo, now: time.Now}
}

func parseAutoSaveDay(raw any) (int, error) {
	var day float64
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidAutoSaveDay
		}
		day = f
	case float64:
		day = v
	case int:
		day = float64(v)
	default:
		return 0, ErrInvalidAutoSaveDay
	}
	if day != math.Trunc(day) || day < domain.MinAutoSaveDay || day > domain.MaxAutoSaveDay {
		return 0, ErrInvalidAutoSaveDay
	}
	return int(day), nil
}

func (s *SavingsService) CreateGoal(ctx context.Context, userID string, payload domain.Payload) (*domain.SavingsGoal, error) {
	if payload == nil {
		return nil, financeErrors.ErrInvalidRequest
	}
	if !payload.Has("title") || !payload.Has("targetAmount") || !payload.Has("deadline") {
		return nil, ErrGoalFieldsRequired
	}

	title, err := normalizeTitle(payload["title"])
	if err != nil {
		return nil, err
	}
	target, err := domain.NormalizeAmount(payload["targetAmount"])
	if err != nil {
		return nil, err
	}
	deadline, err := domain.ParseISODate(payload["deadline"])
	if err != nil {
		return nil, err
	}

	current := decimal.Zero
	if raw := payload.Field("currentAmount"); raw.Present && raw.Value != nil {
		if current, err = domain.ParseDecimal(raw.Value); err != nil {
			return nil, err
		}
		if current.IsNegative() {
			return nil, ErrNegativeProgress
		}
		if current.GreaterThan(target) {
			return nil, ErrProgressAboveTarget
		}
	}

	now := s.now().UTC()
	goal := &domain.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if raw := payload.Field("autoSaveDay"); raw.Present && raw.Value != nil {
		day, err := parseAutoSaveDay(raw.Value)
		if err != nil {
			return nil, err
		}
		goal.AutoSaveDay = &day
	}
	if raw := payload.Field("monthlyAmount"); raw.Present && raw.Value != nil {
		monthly, err := domain.NormalizeAmount(raw.Value)
		if err != nil {
			return nil, err
		}
		goal.MonthlyAmount = &monthly
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, financeErrors.Store(err)
	}
	return goal, nil
}

func (s *SavingsService) GetGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	goals, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if goals == nil {
		return []domain.SavingsGoal{}, nil
	}
	return goals, nil
}

// UpdateGoalProgress adds a signed amount to the goal's current amount. The
// result has to stay within [0, target].
func (s *SavingsService) UpdateGoalProgress(ctx context.Context, id, userID string, raw any) (*domain.SavingsGoal, error) {
	if _, isText := raw.(string); isText || raw == nil {
		return nil, ErrProgressNotNumber
	}
	delta, err := domain.ParseDecimal(raw)
	if err != nil {
		return nil, ErrProgressNotNumber
	}

	goal, err := s.repo.FindOne(ctx, id, userID)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if goal == nil {
		return nil, financeErrors.ErrGoalNotFound
	}

	newAmount := goal.CurrentAmount.Add(delta)
	if newAmount.IsNegative() {
		return nil, ErrNegativeProgress
	}
	if newAmount.GreaterThan(goal.TargetAmount) {
		return nil, ErrProgressAboveTarget
	}

	updated, err := s.repo.UpdateCurrentAmount(ctx, goal.ID, newAmount)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if updated == nil {
		return nil, financeErrors.ErrGoalNotFound
	}
	return updated, nil
}

func (s *SavingsService) DeleteGoal(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return financeErrors.Store(err)
	}
	if deleted == 0 {
		return financeErrors.ErrGoalNotFound
	}
	return nil
}

// RunAutoSavings accrues the monthly amount of every goal scheduled for the
// day of date. A goal is accrued at most once per calendar day, and never
// past its target.
func (s *SavingsService) RunAutoSavings(ctx context.Context, date time.Time) (domain.AutoSaveResult, error) {
	log := logger.FromContext(ctx)
	on := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	result := domain.AutoSaveResult{Day: date.Day()}

	goals, err := s.repo.FindDueForAutoSave(ctx, result.Day, on)
	if err != nil {
		return result, financeErrors.Store(err)
	}
	result.ProcessedGoals = len(goals)

	for _, goal := range goals {
		if goal.MonthlyAmount == nil {
			continue
		}
		if goal.CurrentAmount.Add(*goal.MonthlyAmount).GreaterThan(goal.TargetAmount) {
			log.Debug().Str("goal_id", goal.ID).Msg("auto savings skipped, target would be exceeded")
			continue
		}
		accrued, err := s.repo.AccrueMonthly(ctx, goal.ID, *goal.MonthlyAmount, on)
		if err != nil {
			return result, financeErrors.Store(err)
		}
		if accrued {
			result.UpdatedGoals++
		}
	}

	log.Info().
		Int("day", result.Day).
		Int("processed_goals", result.ProcessedGoals).
		Int("updated_goals", result.UpdatedGoals).
		Msg("auto savings run finished")
	return result, nil
}

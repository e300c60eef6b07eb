package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const savingsGoalColumns = `id, user_id, title, target_amount, current_amount, deadline,
	auto_save_day, monthly_amount, last_auto_saved_on, created_at, updated_at`

type SavingsGoalRepository struct {
	db *sql.DB
}

func NewSavingsGoalRepository(db *sql.DB) *SavingsGoalRepository {
	return &SavingsGoalRepository{db: db}
}

func scanSavingsGoal(row rowScanner) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	var autoSaveDay sql.NullInt32
	var monthlyAmount decimal.NullDecimal
	var lastAutoSavedOn sql.NullTime
	if err := row.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.TargetAmount, &goal.CurrentAmount, &goal.Deadline,
		&autoSaveDay, &monthlyAmount, &lastAutoSavedOn, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	if autoSaveDay.Valid {
		day := int(autoSaveDay.Int32)
		goal.AutoSaveDay = &day
	}
	if monthlyAmount.Valid {
		amount := monthlyAmount.Decimal
		goal.MonthlyAmount = &amount
	}
	if lastAutoSavedOn.Valid {
		on := lastAutoSavedOn.Time.UTC()
		goal.LastAutoSavedOn = &on
	}
	return &goal, nil
}

func (r *SavingsGoalRepository) queryGoals(ctx context.Context, query string, args ...any) ([]domain.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.SavingsGoal
	for rows.Next() {
		goal, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *SavingsGoalRepository) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	var autoSaveDay sql.NullInt32
	if goal.AutoSaveDay != nil {
		autoSaveDay = sql.NullInt32{Int32: int32(*goal.AutoSaveDay), Valid: true}
	}
	var monthlyAmount decimal.NullDecimal
	if goal.MonthlyAmount != nil {
		monthlyAmount = decimal.NullDecimal{Decimal: *goal.MonthlyAmount, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (id, user_id, title, target_amount, current_amount, deadline,
			auto_save_day, monthly_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		goal.ID, goal.UserID, goal.Title, goal.TargetAmount, goal.CurrentAmount, goal.Deadline,
		autoSaveDay, monthlyAmount, goal.CreatedAt, goal.UpdatedAt,
	)
	return translateError(err)
}

func (r *SavingsGoalRepository) FindByUser(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.queryGoals(ctx,
		"SELECT "+savingsGoalColumns+" FROM savings_goals WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

func (r *SavingsGoalRepository) FindOne(ctx context.Context, id, userID string) (*domain.SavingsGoal, error) {
	if !validID(id) || !validID(userID) {
		return nil, nil
	}
	goal, err := scanSavingsGoal(r.db.QueryRowContext(ctx,
		"SELECT "+savingsGoalColumns+" FROM savings_goals WHERE id = $1 AND user_id = $2", id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return goal, nil
}

func (r *SavingsGoalRepository) UpdateCurrentAmount(ctx context.Context, id string, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	if !validID(id) {
		return nil, nil
	}
	goal, err := scanSavingsGoal(r.db.QueryRowContext(ctx,
		`UPDATE savings_goals SET current_amount = $2, updated_at = NOW()
		WHERE id = $1 RETURNING `+savingsGoalColumns, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return goal, nil
}

func (r *SavingsGoalRepository) Delete(ctx context.Context, id, userID string) (int64, error) {
	if !validID(id) || !validID(userID) {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM savings_goals WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SavingsGoalRepository) FindDueForAutoSave(ctx context.Context, day int, on time.Time) ([]domain.SavingsGoal, error) {
	return r.queryGoals(ctx,
		"SELECT "+savingsGoalColumns+` FROM savings_goals
		WHERE auto_save_day = $1 AND monthly_amount IS NOT NULL
			AND (last_auto_saved_on IS NULL OR last_auto_saved_on <> $2::date)
		ORDER BY created_at ASC`, day, on)
}

// AccrueMonthly is a single conditional UPDATE, so two concurrent runs for the
// same date cannot both accrue a goal.
func (r *SavingsGoalRepository) AccrueMonthly(ctx context.Context, id string, amount decimal.Decimal, on time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE savings_goals
		SET current_amount = current_amount + $2, last_auto_saved_on = $3::date, updated_at = NOW()
		WHERE id = $1
			AND (last_auto_saved_on IS NULL OR last_auto_saved_on <> $3::date)
			AND current_amount + $2 <= target_amount`,
		id, amount, on)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

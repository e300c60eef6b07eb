package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

const reminderColumns = "id, user_id, title, amount, type, due_date, note, is_paid, created_at, updated_at"

type ReminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var reminder domain.Reminder
	var note sql.NullString
	if err := row.Scan(&reminder.ID, &reminder.UserID, &reminder.Title, &reminder.Amount, &reminder.Type,
		&reminder.DueDate, &note, &reminder.IsPaid, &reminder.CreatedAt, &reminder.UpdatedAt); err != nil {
		return nil, err
	}
	reminder.Note = stringPtr(note)
	return &reminder, nil
}

func (r *ReminderRepository) queryReminders(ctx context.Context, query string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, title, amount, type, due_date, note, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		reminder.ID, reminder.UserID, reminder.Title, reminder.Amount, reminder.Type, reminder.DueDate,
		nullableString(reminder.Note), reminder.IsPaid, reminder.CreatedAt, reminder.UpdatedAt,
	)
	return translateError(err)
}

func (r *ReminderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Reminder, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.queryReminders(ctx,
		"SELECT "+reminderColumns+" FROM reminders WHERE user_id = $1 ORDER BY due_date ASC", userID)
}

func (r *ReminderRepository) FindUpcoming(ctx context.Context, userID string, before time.Time) ([]domain.Reminder, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.queryReminders(ctx,
		"SELECT "+reminderColumns+` FROM reminders
		WHERE user_id = $1 AND NOT is_paid AND due_date <= $2
		ORDER BY due_date ASC`, userID, before)
}

func (r *ReminderRepository) MarkPaid(ctx context.Context, id, userID string) (*domain.Reminder, error) {
	if !validID(id) || !validID(userID) {
		return nil, nil
	}
	reminder, err := scanReminder(r.db.QueryRowContext(ctx,
		`UPDATE reminders SET is_paid = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 RETURNING `+reminderColumns, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return reminder, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id, userID string) (int64, error) {
	if !validID(id) || !validID(userID) {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const transactionColumns = "id, user_id, title, amount, type, category, date, note, created_at, updated_at"

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var category, note sql.NullString
	if err := row.Scan(&transaction.ID, &transaction.UserID, &transaction.Title, &transaction.Amount, &transaction.Type,
		&category, &transaction.Date, &note, &transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
		return nil, err
	}
	transaction.Category = stringPtr(category)
	transaction.Note = stringPtr(note)
	return &transaction, nil
}

func (r *TransactionRepository) FindOne(ctx context.Context, filter domain.TransactionFilter) (*domain.Transaction, error) {
	if !validID(filter.ID) || !validID(filter.UserID) {
		return nil, nil
	}
	query := "SELECT " + transactionColumns + " FROM transactions WHERE id = $1 AND user_id = $2"

	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, filter.ID, filter.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return transaction, nil
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if !validID(userID) {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, title, amount, type, category, date, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		transaction.ID, transaction.UserID, transaction.Title, transaction.Amount, transaction.Type,
		nullableString(transaction.Category), transaction.Date, nullableString(transaction.Note),
		transaction.CreatedAt, transaction.UpdatedAt,
	)
	return translateError(err)
}

func (r *TransactionRepository) Update(ctx context.Context, id, userID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if !validID(id) || !validID(userID) {
		return nil, nil
	}

	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Amount != nil {
		set.add("amount", *patch.Amount)
	}
	if patch.Type != nil {
		set.add("type", *patch.Type)
	}
	if patch.ClearCategory {
		set.addRaw("category = NULL")
	} else if patch.Category != nil {
		set.add("category", *patch.Category)
	}
	if patch.Date != nil {
		set.add("date", *patch.Date)
	}
	if patch.ClearNote {
		set.addRaw("note = NULL")
	} else if patch.Note != nil {
		set.add("note", *patch.Note)
	}
	set.addRaw("updated_at = NOW()")

	query := "UPDATE transactions SET " + set.String() +
		" WHERE id = " + set.placeholder(id) + " AND user_id = " + set.placeholder(userID) +
		" RETURNING " + transactionColumns

	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return transaction, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, filter domain.TransactionFilter) (int64, error) {
	if !validID(filter.ID) || !validID(filter.UserID) {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", filter.ID, filter.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SumAmounts adds up amounts in NUMERIC, so no float rounding happens in the
// database or on the way out.
func (r *TransactionRepository) SumAmounts(ctx context.Context, filter domain.SumFilter) (decimal.Decimal, error) {
	if !validID(filter.UserID) {
		return decimal.Zero, nil
	}
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4`,
		filter.UserID, filter.Type, filter.From, filter.To,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

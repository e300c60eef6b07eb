package application

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type CategoryResolver interface {
	ResolveCategoryForType(ctx context.Context, userID string, t domain.TransactionType, raw domain.Field) (domain.CategoryValue, error)
	AssertCategoryStillValid(ctx context.Context, userID string, t domain.TransactionType, existing *string) error
}

type TransactionService struct {
	repo       domain.TransactionRepository
	categories CategoryResolver
	now        func() time.Time
}

func NewTransactionService(repo domain.TransactionRepository, categories CategoryResolver) *TransactionService {
	return &TransactionService{repo: repo, categories: categories, now: time.Now}
}

// titles live in VARCHAR(255) columns
const maxTitleLength = 255

var ErrTitleTooLong = financeErrors.NewValidationError("Title must be at most 255 characters")

func normalizeTitle(raw any) (string, error) {
	title, ok := raw.(string)
	if !ok {
		return "", financeErrors.NewValidationError("Title must be a non-empty string")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", financeErrors.NewValidationError("Title must be a non-empty string")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// normalizeNote returns nil for an explicit null.
func normalizeNote(raw any) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	note, ok := raw.(string)
	if !ok {
		return nil, financeErrors.NewValidationError("Note must be a string or null")
	}
	return &note, nil
}

// BuildCreate validates a creation payload into a full transaction. The
// category, when given, is resolved against the transaction's own type.
func (s *TransactionService) BuildCreate(ctx context.Context, userID string, payload domain.Payload) (*domain.Transaction, error) {
	if payload == nil {
		return nil, financeErrors.ErrInvalidRequest
	}
	if !payload.Has("title") || !payload.Has("amount") || !payload.Has("type") {
		return nil, financeErrors.ErrMissingFields
	}

	title, err := normalizeTitle(payload["title"])
	if err != nil {
		return nil, err
	}
	amount, err := domain.NormalizeAmount(payload["amount"])
	if err != nil {
		return nil, err
	}
	transactionType, err := domain.NormalizeType(payload["type"])
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
	date := now
	if raw := payload.Field("date"); raw.Present && raw.Value != nil {
		if date, err = domain.ParseISODate(raw.Value); err != nil {
			return nil, err
		}
	}

	category, err := s.categories.ResolveCategoryForType(ctx, userID, transactionType, payload.Field("category"))
	if err != nil {
		return nil, err
	}

	return &domain.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Amount:    amount,
		Type:      transactionType,
		Category:  category.Name,
		Date:      date,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// BuildUpdate validates only the supplied fields of a partial update against
// the stored transaction. A type switch without a category in the same
// payload re-checks the stored category under the new type.
func (s *TransactionService) BuildUpdate(ctx context.Context, userID string, existing domain.Transaction, payload domain.Payload) (domain.TransactionPatch, error) {
	var patch domain.TransactionPatch
	if payload == nil {
		return patch, financeErrors.ErrInvalidRequest
	}

	if payload.Has("title") {
		title, err := normalizeTitle(payload["title"])
		if err != nil {
			return patch, err
		}
		patch.Title = &title
	}

	if payload.Has("amount") {
		amount, err := domain.NormalizeAmount(payload["amount"])
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}

	if payload.Has("type") {
		transactionType, err := domain.NormalizeType(payload["type"])
		if err != nil {
			return patch, err
		}
		patch.Type = &transactionType
	}

	// a null date leaves the stored date alone, as an omitted one does on create
	if raw := payload.Field("date"); raw.Present && raw.Value != nil {
		date, err := domain.ParseISODate(raw.Value)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}

	if payload.Has("note") {
		note, err := normalizeNote(payload["note"])
		if err != nil {
			return patch, err
		}
		if note == nil {
			patch.ClearNote = true
		} else {
			patch.Note = note
		}
	}

	targetType := existing.Type
	if patch.Type != nil {
		targetType = *patch.Type
	}

	category := payload.Field("category")
	switch {
	case category.IsNull():
		patch.ClearCategory = true
	case category.Present:
		resolved, err := s.categories.ResolveCategoryForType(ctx, userID, targetType, category)
		if err != nil {
			return patch, err
		}
		patch.Category = resolved.Name
	case targetType != existing.Type:
		if err := s.categories.AssertCategoryStillValid(ctx, userID, targetType, existing.Category); err != nil {
			return patch, err
		}
	}

	if patch.IsEmpty() {
		return patch, financeErrors.ErrNoFieldsToUpdate
	}
	return patch, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, payload domain.Payload) (*domain.Transaction, error) {
	transaction, err := s.BuildCreate(ctx, userID, payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, financeErrors.Store(err)
	}
	return transaction, nil
}

func (s *TransactionService) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	transactions, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// UpdateTransaction applies a partial update. Nothing is written unless the
// whole payload validates.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id, userID string, payload domain.Payload) (*domain.Transaction, error) {
	existing, err := s.repo.FindOne(ctx, domain.TransactionFilter{ID: id, UserID: userID})
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if existing == nil {
		return nil, financeErrors.ErrTransactionNotFound
	}

	patch, err := s.BuildUpdate(ctx, userID, *existing, payload)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, existing.ID, userID, patch)
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	if updated == nil {
		return nil, financeErrors.ErrTransactionNotFound
	}
	return updated, nil
}

// DeleteTransaction removes the transaction if the user owns it. Deleting a
// row that is missing or foreign is a silent no-op.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id, userID string) error {
	if _, err := s.repo.Delete(ctx, domain.TransactionFilter{ID: id, UserID: userID}); err != nil {
		return financeErrors.Store(err)
	}
	return nil
}

// GetSummary totals income and expense over one calendar month, the current
// one when month is empty.
func (s *TransactionService) GetSummary(ctx context.Context, userID, month string) (domain.Summary, error) {
	var summary domain.Summary

	from, to, err := domain.MonthWindow(month, s.now())
	if err != nil {
		return summary, err
	}

	income, err := s.repo.SumAmounts(ctx, domain.SumFilter{UserID: userID, Type: domain.TransactionTypeIncome, From: from, To: to})
	if err != nil {
		return summary, financeErrors.Store(err)
	}
	expense, err := s.repo.SumAmounts(ctx, domain.SumFilter{UserID: userID, Type: domain.TransactionTypeExpense, From: from, To: to})
	if err != nil {
		return summary, financeErrors.Store(err)
	}

	summary.TotalIncome = income
	summary.TotalExpense = expense
	summary.Balance = income.Sub(expense)
	return summary, nil
}

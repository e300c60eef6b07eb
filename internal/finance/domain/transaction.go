package domain

import (
	"context"
	"strings"
	"time"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

var TransactionTypes = []TransactionType{TransactionTypeIncome, TransactionTypeExpense}

func IsValidTransactionType(t string) bool {
	return t == string(TransactionTypeIncome) || t == string(TransactionTypeExpense)
}

// NormalizeType restricts raw input to the closed set of transaction types.
func NormalizeType(raw any) (TransactionType, error) {
	s, ok := raw.(string)
	if !ok {
		return "", financeErrors.ErrInvalidType
	}
	s = strings.TrimSpace(s)
	if !IsValidTransactionType(s) {
		return "", financeErrors.ErrInvalidType
	}
	return TransactionType(s), nil
}

type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  *string         `json:"category"`
	Date      time.Time       `json:"date"`
	Note      *string         `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TransactionPatch holds the fields of a partial update. A nil pointer leaves
// the stored value untouched; the Clear flags null the optional columns.
type TransactionPatch struct {
	Title         *string
	Amount        *decimal.Decimal
	Type          *TransactionType
	Category      *string
	ClearCategory bool
	Date          *time.Time
	Note          *string
	ClearNote     bool
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Type == nil && p.Category == nil &&
		!p.ClearCategory && p.Date == nil && p.Note == nil && !p.ClearNote
}

// Apply returns t with the patch applied.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.ClearCategory {
		t.Category = nil
	} else if p.Category != nil {
		c := *p.Category
		t.Category = &c
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.ClearNote {
		t.Note = nil
	} else if p.Note != nil {
		n := *p.Note
		t.Note = &n
	}
	return t
}

// TransactionFilter always scopes to one owner.
type TransactionFilter struct {
	ID     string
	UserID string
}

type SumFilter struct {
	UserID string
	Type   TransactionType
	From   time.Time // inclusive
	To     time.Time // exclusive
}

type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

type TransactionRepository interface {
	FindOne(ctx context.Context, filter TransactionFilter) (*Transaction, error)
	FindByUser(ctx context.Context, userID string) ([]Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, id, userID string, patch TransactionPatch) (*Transaction, error)
	Delete(ctx context.Context, filter TransactionFilter) (int64, error)
	SumAmounts(ctx context.Context, filter SumFilter) (decimal.Decimal, error)
}

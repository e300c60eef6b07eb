package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

const MaxCategoryNameLength = 50

// ErrUniqueViolation is returned by repositories when the store rejects a
// write on a uniqueness constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

// Category is either a default (UserID nil, visible to everyone and read-only)
// or owned by a single user.
type Category struct {
	ID        string
	Name      string
	Type      TransactionType
	UserID    *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Category) IsDefault() bool {
	return c.UserID == nil
}

func (c Category) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

type CategoryDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	IsDefault bool            `json:"isDefault"`
	IsActive  bool            `json:"isActive"`
}

func (c Category) DTO() CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		IsDefault: c.IsDefault(),
		IsActive:  c.IsActive,
	}
}

type GroupedCategories struct {
	Income  []CategoryDTO `json:"income"`
	Expense []CategoryDTO `json:"expense"`
}

// Scope selects the default categories plus those owned by UserID.
type Scope struct {
	UserID string
}

// CategoryFilter matches on the normalized name, case-insensitively.
type CategoryFilter struct {
	Scope      Scope
	Type       TransactionType
	Name       string
	ActiveOnly bool
	ExcludeID  string
}

type CategoryPatch struct {
	Name     *string
	IsActive *bool
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.IsActive == nil
}

// CategoryValue is the result of resolving a category field: Set is false
// when the field was omitted, a nil Name clears the category.
type CategoryValue struct {
	Set  bool
	Name *string
}

type CategoryRepository interface {
	FindOne(ctx context.Context, filter CategoryFilter) (*Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindVisible(ctx context.Context, scope Scope) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, id string, patch CategoryPatch) (*Category, error)
}

// NormalizeCategoryName trims, collapses inner whitespace and bounds length.
func NormalizeCategoryName(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", financeErrors.ErrCategoryNotString
	}
	normalized := strings.Join(strings.Fields(s), " ")
	if normalized == "" {
		return "", financeErrors.ErrCategoryEmpty
	}
	if utf8.RuneCountInString(normalized) > MaxCategoryNameLength {
		return "", financeErrors.ErrCategoryTooLong
	}
	return normalized, nil
}

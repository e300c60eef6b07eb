package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type CategoryService struct {
	repo domain.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

func (s *CategoryService) findMatching(ctx context.Context, userID string, t domain.TransactionType, name, excludeID string) (*domain.Category, error) {
	category, err := s.repo.FindOne(ctx, domain.CategoryFilter{
		Scope:      domain.Scope{UserID: userID},
		Type:       t,
		Name:       name,
		ActiveOnly: true,
		ExcludeID:  excludeID,
	})
	if err != nil {
		return nil, financeErrors.Store(err)
	}
	return category, nil
}

// GetCategories lists every active category visible to the user, grouped by
// type and ordered by name.
func (s *CategoryService) GetCategories(ctx context.Context, userID string) (domain.GroupedCategories, error) {
	grouped := domain.GroupedCategories{
		Income:  []domain.CategoryDTO{},
		Expense: []domain.CategoryDTO{},
	}

	categories, err := s.repo.FindVisible(ctx, domain.Scope{UserID: userID})
	if err != nil {
		return grouped, financeErrors.Store(err)
	}

	for _, category := range categories {
		if !category.IsActive {
			continue
		}
		switch category.Type {
		case domain.TransactionTypeIncome:
			grouped.Income = append(grouped.Income, category.DTO())
		case domain.TransactionTypeExpense:
			grouped.Expense = append(grouped.Expense, category.DTO())
		}
	}
	return grouped, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID string, payload domain.Payload) (domain.CategoryDTO, error) {
	if payload == nil {
		return domain.CategoryDTO{}, financeErrors.ErrInvalidRequest
	}

	categoryType, err := domain.NormalizeType(payload["type"])
	if err != nil {
		return domain.CategoryDTO{}, err
	}
	name, err := domain.NormalizeCategoryName(payload["name"])
	if err != nil {
		return domain.CategoryDTO{}, err
	}

	duplicate, err := s.findMatching(ctx, userID, categoryType, name, "")
	if err != nil {
		return domain.CategoryDTO{}, err
	}
	if duplicate != nil {
		return domain.CategoryDTO{}, financeErrors.ErrDuplicateCategory
	}

	owner := userID
	now := s.now().UTC()
	category := &domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      categoryType,
		UserID:    &owner,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.CategoryDTO{}, financeErrors.ErrDuplicateCategory
		}
		return domain.CategoryDTO{}, financeErrors.Store(err)
	}
	return category.DTO(), nil
}

// UpdateCategory renames or (de)activates a user-owned category. Categories
// owned by someone else are reported as missing.
func (s *CategoryService) UpdateCategory(ctx context.Context, id, userID string, payload domain.Payload) (domain.CategoryDTO, error) {
	if payload == nil {
		return domain.CategoryDTO{}, financeErrors.ErrInvalidRequest
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.CategoryDTO{}, financeErrors.Store(err)
	}
	if existing == nil {
		return domain.CategoryDTO{}, financeErrors.ErrCategoryNotFound
	}
	if existing.IsDefault() {
		return domain.CategoryDTO{}, financeErrors.ErrDefaultCategoryReadOnly
	}
	if !existing.OwnedBy(userID) {
		return domain.CategoryDTO{}, financeErrors.ErrCategoryNotFound
	}

	var patch domain.CategoryPatch

	if payload.Has("name") {
		name, err := domain.NormalizeCategoryName(payload["name"])
		if err != nil {
			return domain.CategoryDTO{}, err
		}
		patch.Name = &name
	}

	if payload.Has("isActive") {
		isActive, ok := payload["isActive"].(bool)
		if !ok {
			return domain.CategoryDTO{}, financeErrors.NewValidationError("isActive must be a boolean")
		}
		patch.IsActive = &isActive
	}

	if patch.IsEmpty() {
		return domain.CategoryDTO{}, financeErrors.ErrNoFieldsToUpdate
	}

	// the resulting row must not collide with another active category
	willBeActive := existing.IsActive
	if patch.IsActive != nil {
		willBeActive = *patch.IsActive
	}
	if willBeActive && (patch.Name != nil || !existing.IsActive) {
		name := existing.Name
		if patch.Name != nil {
			name = *patch.Name
		}
		duplicate, err := s.findMatching(ctx, userID, existing.Type, name, existing.ID)
		if err != nil {
			return domain.CategoryDTO{}, err
		}
		if duplicate != nil {
			return domain.CategoryDTO{}, financeErrors.ErrDuplicateCategory
		}
	}

	updated, err := s.repo.Update(ctx, existing.ID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.CategoryDTO{}, financeErrors.ErrDuplicateCategory
		}
		return domain.CategoryDTO{}, financeErrors.Store(err)
	}
	if updated == nil {
		return domain.CategoryDTO{}, financeErrors.ErrCategoryNotFound
	}
	return updated.DTO(), nil
}

// ResolveCategoryForType maps free text onto the canonical name of an active
// category of the given type visible to the user. Omitted and null fields
// pass through untouched.
func (s *CategoryService) ResolveCategoryForType(ctx context.Context, userID string, t domain.TransactionType, raw domain.Field) (domain.CategoryValue, error) {
	if !raw.Present {
		return domain.CategoryValue{}, nil
	}
	if raw.Value == nil {
		return domain.CategoryValue{Set: true}, nil
	}

	name, err := domain.NormalizeCategoryName(raw.Value)
	if err != nil {
		return domain.CategoryValue{}, err
	}

	category, err := s.findMatching(ctx, userID, t, name, "")
	if err != nil {
		return domain.CategoryValue{}, err
	}
	if category == nil {
		return domain.CategoryValue{}, financeErrors.ErrCategoryMismatch
	}

	canonical := category.Name
	return domain.CategoryValue{Set: true, Name: &canonical}, nil
}

// AssertCategoryStillValid checks that an already stored category still
// resolves under t. Used when only the type of a transaction changes.
func (s *CategoryService) AssertCategoryStillValid(ctx context.Context, userID string, t domain.TransactionType, existing *string) error {
	if existing == nil || *existing == "" {
		return nil
	}

	category, err := s.findMatching(ctx, userID, t, *existing, "")
	if err != nil {
		return err
	}
	if category == nil {
		return financeErrors.ErrStaleCategory
	}
	return nil
}

package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

// MockCategoryRepository keeps categories in memory with the same scoping and
// case-insensitive matching as the Postgres repository.
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories []domain.Category
	Err        error
}

func inScope(category domain.Category, scope domain.Scope) bool {
	return category.IsDefault() || category.OwnedBy(scope.UserID)
}

func (m *MockCategoryRepository) FindOne(_ context.Context, filter domain.CategoryFilter) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, category := range m.Categories {
		if !inScope(category, filter.Scope) || category.Type != filter.Type {
			continue
		}
		if !strings.EqualFold(category.Name, filter.Name) {
			continue
		}
		if filter.ActiveOnly && !category.IsActive {
			continue
		}
		if filter.ExcludeID != "" && category.ID == filter.ExcludeID {
			continue
		}
		found := category
		return &found, nil
	}
	return nil, nil
}

func (m *MockCategoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, category := range m.Categories {
		if category.ID == id {
			found := category
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) FindVisible(_ context.Context, scope domain.Scope) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var visible []domain.Category
	for _, category := range m.Categories {
		if inScope(category, scope) && category.IsActive {
			visible = append(visible, category)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Type != visible[j].Type {
			return visible[i].Type < visible[j].Type
		}
		return visible[i].Name < visible[j].Name
	})
	return visible, nil
}

func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Categories = append(m.Categories, *category)
	return nil
}

func (m *MockCategoryRepository) Update(_ context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i, category := range m.Categories {
		if category.ID != id {
			continue
		}
		if patch.Name != nil {
			category.Name = *patch.Name
		}
		if patch.IsActive != nil {
			category.IsActive = *patch.IsActive
		}
		category.UpdatedAt = time.Now().UTC()
		m.Categories[i] = category
		return &category, nil
	}
	return nil, nil
}

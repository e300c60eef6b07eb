package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository keeps transactions in memory. Err, when set, is
// returned from every call.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	Err          error
}

func (m *MockTransactionRepository) FindOne(_ context.Context, filter domain.TransactionFilter) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, transaction := range m.Transactions {
		if transaction.ID == filter.ID && transaction.UserID == filter.UserID {
			found := transaction
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var filtered []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			filtered = append(filtered, transaction)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	return filtered, nil
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) Update(_ context.Context, id, userID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i, transaction := range m.Transactions {
		if transaction.ID == id && transaction.UserID == userID {
			updated := patch.Apply(transaction)
			updated.UpdatedAt = time.Now().UTC()
			m.Transactions[i] = updated
			return &updated, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) Delete(_ context.Context, filter domain.TransactionFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	for i, transaction := range m.Transactions {
		if transaction.ID == filter.ID && transaction.UserID == filter.UserID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockTransactionRepository) SumAmounts(_ context.Context, filter domain.SumFilter) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	total := decimal.Zero
	for _, transaction := range m.Transactions {
		if transaction.UserID != filter.UserID || transaction.Type != filter.Type {
			continue
		}
		if transaction.Date.Before(filter.From) || !transaction.Date.Before(filter.To) {
			continue
		}
		total = total.Add(transaction.Amount)
	}
	return total, nil
}

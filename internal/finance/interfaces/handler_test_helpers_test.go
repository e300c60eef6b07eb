package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "user-1"
	otherUserID = "user-2"
)

func newRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func decodeObject(t *testing.T, res *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func decodeList(t *testing.T, res *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func strPtr(s string) *string {
	return &s
}

func seededCategories() *infrastructure.MockCategoryRepository {
	owner := testUserID
	return &infrastructure.MockCategoryRepository{
		Categories: []domain.Category{
			{ID: "cat-salary", Name: "Salary", Type: domain.TransactionTypeIncome, IsActive: true},
			{ID: "cat-food", Name: "Food", Type: domain.TransactionTypeExpense, IsActive: true},
			{ID: "cat-rent", Name: "Rent", Type: domain.TransactionTypeExpense, UserID: &owner, IsActive: true},
		},
	}
}

func storedTransaction(id, userID string, t domain.TransactionType, amount string, category *string, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		UserID:    userID,
		Title:     "stored",
		Amount:    decimal.RequireFromString(amount),
		Type:      t,
		Category:  category,
		Date:      date,
		CreatedAt: date,
		UpdatedAt: date,
	}
}

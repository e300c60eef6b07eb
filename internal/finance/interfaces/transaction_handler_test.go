package interfaces

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionHandler(repo *infrastructure.MockTransactionRepository) *TransactionHandler {
	categories := application.NewCategoryService(seededCategories())
	return NewTransactionHandler(application.NewTransactionService(repo, categories), RespondJSON, RespondError)
}

func TestCreateTransaction_Success(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{}
	handler := newTransactionHandler(repo)

	w := httptest.NewRecorder()
	handler.CreateTransaction(w, newRequest(http.MethodPost, "/api/protected/transactions",
		`{"title":" Paycheck ","amount":"1200.5","type":"income","category":"  salary ","date":"2026-02-01"}`, testUserID))

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "Paycheck", body["title"])
	assert.Equal(t, "1200.5", body["amount"])
	assert.Equal(t, "income", body["type"])
	assert.Equal(t, "Salary", body["category"])
	assert.Equal(t, "2026-02-01T00:00:00Z", body["date"])

	require.Len(t, repo.Transactions, 1)
	assert.Equal(t, testUserID, repo.Transactions[0].UserID)
}

func TestCreateTransaction_CategoryOfOtherType(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.CreateTransaction(w, newRequest(http.MethodPost, "/api/protected/transactions",
		`{"title":"Lunch","amount":12,"type":"income","category":"Food"}`, testUserID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category for transaction type", decodeObject(t, w)["message"])
}

func TestCreateTransaction_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"not an object", `[1,2]`, http.StatusBadRequest, "Invalid request body"},
		{"broken json", `{"title":`, http.StatusBadRequest, "Invalid request body"},
		{"missing amount", `{"title":"x","type":"income"}`, http.StatusBadRequest, "Missing required fields"},
		{"zero amount", `{"title":"x","amount":0,"type":"income"}`, http.StatusBadRequest, "Amount must be greater than 0"},
		{"text amount", `{"title":"x","amount":"abc","type":"income"}`, http.StatusBadRequest, "Amount must be a valid number"},
		{"huge exponent", `{"title":"x","amount":1e10000000,"type":"income"}`, http.StatusBadRequest, "Amount must be a valid number"},
		{"too many decimals", `{"title":"x","amount":"0.0000001","type":"income"}`, http.StatusBadRequest, "Amount must be a valid number"},
		{"long title", `{"title":"` + strings.Repeat("t", 256) + `","amount":1,"type":"income"}`, http.StatusBadRequest, "Title must be at most 255 characters"},
		{"bad type", `{"title":"x","amount":1,"type":"transfer"}`, http.StatusBadRequest, `Type must be either "income" or "expense"`},
		{"bad date", `{"title":"x","amount":1,"type":"income","date":"2026-02-30"}`, http.StatusBadRequest, "Date must be a valid ISO date"},
		{"long category", `{"title":"x","amount":1,"type":"expense","category":"` + strings.Repeat("a", 51) + `"}`, http.StatusBadRequest, "Category must be 50 characters or fewer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

			w := httptest.NewRecorder()
			handler.CreateTransaction(w, newRequest(http.MethodPost, "/api/protected/transactions", tt.body, testUserID))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeObject(t, w)["message"])
		})
	}
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.CreateTransaction(w, newRequest(http.MethodPost, "/api/protected/transactions", `{}`, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTransaction_StoreErrorIsHidden(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Err: errors.New("connection refused on 10.0.0.3")}
	handler := newTransactionHandler(repo)

	w := httptest.NewRecorder()
	handler.CreateTransaction(w, newRequest(http.MethodPost, "/api/protected/transactions",
		`{"title":"x","amount":1,"type":"income"}`, testUserID))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestGetTransactions_OnlyOwnNewestFirst(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		storedTransaction("t-1", testUserID, domain.TransactionTypeIncome, "10", nil, day),
		storedTransaction("t-2", otherUserID, domain.TransactionTypeIncome, "20", nil, day),
		storedTransaction("t-3", testUserID, domain.TransactionTypeExpense, "5", nil, day.AddDate(0, 0, 3)),
	}}
	handler := newTransactionHandler(repo)

	w := httptest.NewRecorder()
	handler.GetTransactions(w, newRequest(http.MethodGet, "/api/protected/transactions", "", testUserID))

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "t-3", list[0]["id"])
	assert.Equal(t, "t-1", list[1]["id"])
}

func TestGetTransactions_EmptyIsArray(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.GetTransactions(w, newRequest(http.MethodGet, "/api/protected/transactions", "", testUserID))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateTransaction(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		body    string
		status  int
		message string
		check   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:    "type change keeps stale category",
			id:      "t-1",
			body:    `{"type":"income"}`,
			status:  http.StatusBadRequest,
			message: "Existing category is invalid for updated type",
		},
		{
			name:   "type change with explicit null category",
			id:     "t-1",
			body:   `{"type":"income","category":null}`,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "income", body["type"])
				assert.Nil(t, body["category"])
			},
		},
		{
			name:   "type change with category for new type",
			id:     "t-1",
			body:   `{"type":"income","category":"SALARY"}`,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Salary", body["category"])
			},
		},
		{
			name:   "category resolved against stored type",
			id:     "t-1",
			body:   `{"category":"rent"}`,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Rent", body["category"])
				assert.Equal(t, "expense", body["type"])
			},
		},
		{
			name:   "amount only",
			id:     "t-1",
			body:   `{"amount":"250.75"}`,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "250.75", body["amount"])
				assert.Equal(t, "Food", body["category"])
			},
		},
		{
			name:    "empty payload",
			id:      "t-1",
			body:    `{}`,
			status:  http.StatusBadRequest,
			message: "No fields to update",
		},
		{
			name:    "foreign transaction",
			id:      "t-foreign",
			body:    `{"title":"mine now"}`,
			status:  http.StatusNotFound,
			message: "Transaction not found",
		},
		{
			name:    "null date only",
			id:      "t-1",
			body:    `{"date":null}`,
			status:  http.StatusBadRequest,
			message: "No fields to update",
		},
		{
			name:    "malformed date",
			id:      "t-1",
			body:    `{"date":"2026-13-01"}`,
			status:  http.StatusBadRequest,
			message: "Date must be a valid ISO date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
				storedTransaction("t-1", testUserID, domain.TransactionTypeExpense, "12", strPtr("Food"), day),
				storedTransaction("t-foreign", otherUserID, domain.TransactionTypeExpense, "12", nil, day),
			}}
			handler := newTransactionHandler(repo)

			req := newRequest(http.MethodPut, "/api/protected/transactions/"+tt.id, tt.body, testUserID)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.UpdateTransaction(w, req)

			require.Equal(t, tt.status, w.Code)
			body := decodeObject(t, w)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestUpdateTransaction_FailedValidationLeavesRowUntouched(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		storedTransaction("t-1", testUserID, domain.TransactionTypeExpense, "12", strPtr("Food"), day),
	}}
	handler := newTransactionHandler(repo)

	req := newRequest(http.MethodPut, "/api/protected/transactions/t-1", `{"title":"changed","amount":-1}`, testUserID)
	req.SetPathValue("id", "t-1")
	w := httptest.NewRecorder()
	handler.UpdateTransaction(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "stored", repo.Transactions[0].Title)
}

func TestDeleteTransaction(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		storedTransaction("t-1", testUserID, domain.TransactionTypeExpense, "12", nil, day),
		storedTransaction("t-2", otherUserID, domain.TransactionTypeExpense, "12", nil, day),
	}}
	handler := newTransactionHandler(repo)

	for _, id := range []string{"t-1", "t-2", "missing"} {
		req := newRequest(http.MethodDelete, "/api/protected/transactions/"+id, "", testUserID)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.DeleteTransaction(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, id)
	}

	require.Len(t, repo.Transactions, 1)
	assert.Equal(t, "t-2", repo.Transactions[0].ID)
}

func TestGetSummary(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		storedTransaction("t-1", testUserID, domain.TransactionTypeIncome, "1200.5", nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		storedTransaction("t-2", testUserID, domain.TransactionTypeExpense, "250.75", nil, time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)),
		storedTransaction("t-3", testUserID, domain.TransactionTypeExpense, "99", nil, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		storedTransaction("t-4", otherUserID, domain.TransactionTypeIncome, "5000", nil, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
	}}
	handler := newTransactionHandler(repo)

	w := httptest.NewRecorder()
	handler.GetSummary(w, newRequest(http.MethodGet, "/api/protected/transactions/summary?month=2026-01", "", testUserID))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalIncome":1200.5,"totalExpense":250.75,"balance":949.75}`, w.Body.String())
}

func TestGetSummary_EmptyMonthIsZero(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.GetSummary(w, newRequest(http.MethodGet, "/api/protected/transactions/summary?month=2025-07", "", testUserID))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalIncome":0,"totalExpense":0,"balance":0}`, w.Body.String())
}

func TestGetSummary_InvalidMonth(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.GetSummary(w, newRequest(http.MethodGet, "/api/protected/transactions/summary?month=2026-13", "", testUserID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Month must be in YYYY-MM format", decodeObject(t, w)["message"])
}

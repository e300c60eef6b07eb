package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the finance engine can report.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidAmount
	KindNonPositiveAmount
	KindInvalidDate
	KindInvalidType
	KindInvalidCategory
	KindCategoryMismatch
	KindDuplicateCategory
	KindForbidden
	KindNotFound
	KindNoFieldsToUpdate
	KindStoreError
	KindInvalidRequest
	KindMissingFields
	KindInvalidField
)

var kindNames = map[Kind]string{
	KindUnknown:           "Unknown",
	KindInvalidAmount:     "InvalidAmount",
	KindNonPositiveAmount: "NonPositiveAmount",
	KindInvalidDate:       "InvalidDate",
	KindInvalidType:       "InvalidType",
	KindInvalidCategory:   "InvalidCategory",
	KindCategoryMismatch:  "CategoryMismatch",
	KindDuplicateCategory: "DuplicateCategory",
	KindForbidden:         "Forbidden",
	KindNotFound:          "NotFound",
	KindNoFieldsToUpdate:  "NoFieldsToUpdate",
	KindStoreError:        "StoreError",
	KindInvalidRequest:    "InvalidRequest",
	KindMissingFields:     "MissingFields",
	KindInvalidField:      "InvalidField",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status is the HTTP status a kind maps to by default.
func (k Kind) Status() int {
	switch k {
	case KindInvalidAmount, KindNonPositiveAmount, KindInvalidDate, KindInvalidType,
		KindInvalidCategory, KindCategoryMismatch, KindNoFieldsToUpdate,
		KindInvalidRequest, KindMissingFields, KindInvalidField:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateCategory:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Retriable reports whether repeating the same call could succeed.
// Validation failures never are; store failures are left to the caller.
func (k Kind) Retriable() bool {
	return k == KindStoreError
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is
// regardless of the message attached.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the caller-facing text. Wrapped causes are never included.
func (e *Error) Message() string {
	return e.Msg
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Store wraps a persistence failure.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStoreError, Msg: "Internal server error", Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// PublicMessage returns the message safe to show to a caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindStoreError && e.Kind != KindUnknown {
		return e.Msg
	}
	return "Internal server error"
}

var (
	ErrInvalidAmount           = New(KindInvalidAmount, "Amount must be a valid number")
	ErrNonPositiveAmount       = New(KindNonPositiveAmount, "Amount must be greater than 0")
	ErrInvalidDate             = New(KindInvalidDate, "Date must be a valid ISO date")
	ErrInvalidMonth            = New(KindInvalidDate, "Month must be in YYYY-MM format")
	ErrInvalidType             = New(KindInvalidType, `Type must be either "income" or "expense"`)
	ErrCategoryNotString       = New(KindInvalidCategory, "Category must be a string")
	ErrCategoryEmpty           = New(KindInvalidCategory, "Category must be a non-empty string")
	ErrCategoryTooLong         = New(KindInvalidCategory, "Category must be 50 characters or fewer")
	ErrCategoryMismatch        = New(KindCategoryMismatch, "Invalid category for transaction type")
	ErrStaleCategory           = New(KindCategoryMismatch, "Existing category is invalid for updated type")
	ErrDuplicateCategory       = New(KindDuplicateCategory, "Category already exists")
	ErrDefaultCategoryReadOnly = New(KindForbidden, "Cannot modify default category")
	ErrCategoryNotFound        = New(KindNotFound, "Category not found")
	ErrTransactionNotFound     = New(KindNotFound, "Transaction not found")
	ErrGoalNotFound            = New(KindNotFound, "Saving goal not found")
	ErrReminderNotFound        = New(KindNotFound, "Reminder not found")
	ErrNoFieldsToUpdate        = New(KindNoFieldsToUpdate, "No fields to update")
	ErrInvalidRequest          = New(KindInvalidRequest, "Invalid request body")
	ErrMissingFields           = New(KindMissingFields, "Missing required fields")
)

func NewValidationError(msg string) error {
	return New(KindInvalidField, msg)
}

func IsValidationError(err error) bool {
	return KindOf(err).Status() == http.StatusBadRequest
}

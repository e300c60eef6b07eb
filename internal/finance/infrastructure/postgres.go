package infrastructure

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

const pgUniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

// translateError maps driver errors the domain cares about.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrUniqueViolation
	}
	return err
}

// validID reports whether id can be used against a uuid column. Anything
// else cannot match a row, so callers treat it as "not found".
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// setClause collects "column = $n" pairs for dynamic UPDATE statements.
type setClause struct {
	parts []string
	args  []any
}

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.parts = append(c.parts, column+" = $"+strconv.Itoa(len(c.args)))
}

func (c *setClause) addRaw(expr string) {
	c.parts = append(c.parts, expr)
}

func (c *setClause) placeholder(value any) string {
	c.args = append(c.args, value)
	return "$" + strconv.Itoa(len(c.args))
}

func (c *setClause) String() string {
	return strings.Join(c.parts, ", ")
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

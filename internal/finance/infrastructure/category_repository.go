package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

const categoryColumns = "id, name, type, user_id, is_active, created_at, updated_at"

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var userID sql.NullString
	if err := row.Scan(&category.ID, &category.Name, &category.Type, &userID, &category.IsActive, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}
	category.UserID = stringPtr(userID)
	return &category, nil
}

func (r *CategoryRepository) FindOne(ctx context.Context, filter domain.CategoryFilter) (*domain.Category, error) {
	if !validID(filter.Scope.UserID) {
		return nil, nil
	}
	query := "SELECT " + categoryColumns + ` FROM transaction_categories
		WHERE (user_id IS NULL OR user_id = $1) AND type = $2 AND lower(name) = lower($3)`
	args := []any{filter.Scope.UserID, filter.Type, filter.Name}

	if filter.ActiveOnly {
		query += " AND is_active"
	}
	if filter.ExcludeID != "" && validID(filter.ExcludeID) {
		args = append(args, filter.ExcludeID)
		query += " AND id <> $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY user_id NULLS FIRST LIMIT 1"

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	query := "SELECT " + categoryColumns + " FROM transaction_categories WHERE id = $1"

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) FindVisible(ctx context.Context, scope domain.Scope) ([]domain.Category, error) {
	if !validID(scope.UserID) {
		return nil, nil
	}
	query := "SELECT " + categoryColumns + ` FROM transaction_categories
		WHERE (user_id IS NULL OR user_id = $1) AND is_active AND type IN ('income', 'expense')
		ORDER BY type ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, scope.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transaction_categories (id, name, type, user_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category.ID, category.Name, category.Type, nullableString(category.UserID), category.IsActive,
		category.CreatedAt, category.UpdatedAt,
	)
	return translateError(err)
}

func (r *CategoryRepository) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if !validID(id) {
		return nil, nil
	}

	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.IsActive != nil {
		set.add("is_active", *patch.IsActive)
	}
	set.addRaw("updated_at = NOW()")

	query := "UPDATE transaction_categories SET " + set.String() +
		" WHERE id = " + set.placeholder(id) + " RETURNING " + categoryColumns

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return category, nil
}

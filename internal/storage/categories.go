package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapinheiro/money/internal/model"
)

const categoryColumns = `id, name, icon, color, type, created_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var cat model.Category
	var catType string
	err := row.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &catType, &cat.CreatedAt)
	cat.Type = model.CategoryType(catType)
	return cat, err
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a category by its name, ignoring case.
// It returns nil when no category matches.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	cat, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// CreateCategory creates an expense category with a palette color.
// An existing category with the same name is returned unchanged.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	existing, err := s.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("category already exists", "name", existing.Name)
		return existing, nil
	}

	cat := model.Category{
		Name:      strings.TrimSpace(name),
		Icon:      DefaultCategoryIcon,
		Color:     PaletteColor(name),
		Type:      model.CategoryTypeExpense,
		CreatedAt: time.Now(),
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, icon, color, type, created_at) VALUES (?, ?, ?, ?, ?)`,
		cat.Name, cat.Icon, cat.Color, string(cat.Type), cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if cat.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "name", cat.Name, "id", cat.ID)
	return &cat, nil
}

// UpsertCategory inserts the category or updates the one with the same name.
// The category's ID is set from the stored row.
func (s *SQLiteStorage) UpsertCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateString(category.Name, "name"); err != nil {
		return err
	}
	if category.Type == "" {
		category.Type = model.CategoryTypeExpense
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, icon, color, type, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			icon = excluded.icon,
			color = excluded.color,
			type = excluded.type`,
		strings.TrimSpace(category.Name), category.Icon, category.Color, string(category.Type), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", category.Name, err)
	}

	stored, err := s.GetCategoryByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("category %q missing after upsert", category.Name)
	}
	*category = *stored
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapinheiro/money/internal/model"
)

const merchantQuery = `
	SELECT m.id, m.name, m.icon, m.color, m.mcc, m.aliases, m.created_at,
		m.default_category_id, c.name
	FROM merchants m
	LEFT JOIN categories c ON c.id = m.default_category_id`

func scanMerchant(row interface{ Scan(...any) error }) (model.Merchant, error) {
	var (
		m          model.Merchant
		aliases    string
		categoryID sql.NullInt64
		category   sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Icon, &m.Color, &m.MCC, &aliases, &m.CreatedAt,
		&categoryID, &category); err != nil {
		return m, err
	}
	m.DefaultCategoryID = categoryID.Int64
	m.DefaultCategory = category.String
	if aliases != "" {
		if err := json.Unmarshal([]byte(aliases), &m.Aliases); err != nil {
			return m, fmt.Errorf("failed to decode aliases for %q: %w", m.Name, err)
		}
	}
	return m, nil
}

// ListMerchants returns all merchants ordered by name, with their default
// category names resolved.
func (s *SQLiteStorage) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, merchantQuery+` ORDER BY m.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchants: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	var merchants []model.Merchant
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchants: %w", err)
	}

	slog.Debug("retrieved merchants", "count", len(merchants))
	return merchants, nil
}

// GetMerchantByName returns the merchant with the given name, ignoring case.
// It returns nil when no merchant matches.
func (s *SQLiteStorage) GetMerchantByName(ctx context.Context, name string) (*model.Merchant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	m, err := scanMerchant(s.db.QueryRowContext(ctx, merchantQuery+` WHERE m.name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant: %w", err)
	}
	return &m, nil
}

// CreateMerchant creates a merchant with the default icon and a palette color.
// An existing merchant with the same name is returned unchanged.
func (s *SQLiteStorage) CreateMerchant(ctx context.Context, name string) (*model.Merchant, error) {
	existing, err := s.GetMerchantByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("merchant already exists", "name", existing.Name)
		return existing, nil
	}

	m := model.Merchant{
		Name:      strings.TrimSpace(name),
		Icon:      DefaultMerchantIcon,
		Color:     PaletteColor(name),
		CreatedAt: time.Now(),
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO merchants (name, icon, color, created_at) VALUES (?, ?, ?, ?)`,
		m.Name, m.Icon, m.Color, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}
	if m.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get merchant ID: %w", err)
	}

	slog.Info("created merchant", "name", m.Name, "id", m.ID)
	return &m, nil
}

// UpsertMerchant inserts the merchant or updates the one with the same name.
// DefaultCategory is resolved by name; an unknown category leaves the
// merchant without a default.
func (s *SQLiteStorage) UpsertMerchant(ctx context.Context, merchant *model.Merchant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if merchant == nil {
		return fmt.Errorf("%w: merchant", ErrNilParameter)
	}
	if err := validateString(merchant.Name, "name"); err != nil {
		return err
	}

	var categoryID any
	if merchant.DefaultCategory != "" {
		cat, err := s.GetCategoryByName(ctx, merchant.DefaultCategory)
		if err != nil {
			return err
		}
		if cat != nil {
			categoryID = cat.ID
		} else {
			slog.Warn("merchant default category not found",
				"merchant", merchant.Name, "category", merchant.DefaultCategory)
		}
	}

	aliases := merchant.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	encoded, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO merchants (name, icon, color, mcc, aliases, default_category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			icon = excluded.icon,
			color = excluded.color,
			mcc = excluded.mcc,
			aliases = excluded.aliases,
			default_category_id = excluded.default_category_id`,
		strings.TrimSpace(merchant.Name), merchant.Icon, merchant.Color, merchant.MCC,
		string(encoded), categoryID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert merchant %q: %w", merchant.Name, err)
	}

	stored, err := s.GetMerchantByName(ctx, merchant.Name)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("merchant %q missing after upsert", merchant.Name)
	}
	*merchant = *stored
	return nil
}

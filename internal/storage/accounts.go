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

const accountColumns = `id, name, institution, type, color, balance_cents, created_at`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	var accountType string
	var balance int64
	err := row.Scan(&a.ID, &a.Name, &a.Institution, &accountType, &a.Color, &balance, &a.CreatedAt)
	a.Type = model.AccountType(accountType)
	a.Balance = model.Amount(balance)
	return a, err
}

// ListAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	slog.Debug("retrieved accounts", "count", len(accounts))
	return accounts, nil
}

// GetAccountByName returns the account with the given name, ignoring case.
// It returns nil when no account matches.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}

// CreateAccount creates a debit account with a zero balance.
// An existing account with the same name is returned unchanged.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, name string) (*model.Account, error) {
	existing, err := s.GetAccountByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("account already exists", "name", existing.Name)
		return existing, nil
	}

	a := model.Account{
		Name:      strings.TrimSpace(name),
		Type:      model.AccountTypeDebit,
		Color:     PaletteColor(name),
		CreatedAt: time.Now(),
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, color, created_at) VALUES (?, ?, ?, ?)`,
		a.Name, string(a.Type), a.Color, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if a.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get account ID: %w", err)
	}

	slog.Info("created account", "name", a.Name, "id", a.ID)
	return &a, nil
}

// UpsertAccount inserts the account or updates the one with the same name.
func (s *SQLiteStorage) UpsertAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateString(account.Name, "name"); err != nil {
		return err
	}
	if account.Type == "" {
		account.Type = model.AccountTypeDebit
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, institution, type, color, balance_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			institution = excluded.institution,
			type = excluded.type,
			color = excluded.color,
			balance_cents = excluded.balance_cents`,
		strings.TrimSpace(account.Name), account.Institution, string(account.Type), account.Color,
		int64(account.Balance), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert account %q: %w", account.Name, err)
	}

	stored, err := s.GetAccountByName(ctx, account.Name)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("account %q missing after upsert", account.Name)
	}
	*account = *stored
	return nil
}

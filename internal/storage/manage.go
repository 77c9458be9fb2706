package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wapinheiro/money/internal/common"
)

// Tables whose rows are wheel options managed by name.
const (
	tableMerchants  = "merchants"
	tableCategories = "categories"
	tableAccounts   = "accounts"
	tableTags       = "tags"
)

// RenameMerchant renames a merchant. Past transactions keep the name they
// were captured with.
func (s *SQLiteStorage) RenameMerchant(ctx context.Context, oldName, newName string) error {
	return s.renameOption(ctx, tableMerchants, oldName, newName)
}

// DeleteMerchant removes a merchant.
func (s *SQLiteStorage) DeleteMerchant(ctx context.Context, name string) error {
	return s.deleteOption(ctx, tableMerchants, name)
}

// RenameCategory renames a category. Past transactions keep the name they
// were captured with.
func (s *SQLiteStorage) RenameCategory(ctx context.Context, oldName, newName string) error {
	return s.renameOption(ctx, tableCategories, oldName, newName)
}

// DeleteCategory removes a category. Merchants that defaulted to it are left
// without a default category.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, name string) error {
	return s.deleteOption(ctx, tableCategories, name)
}

// RenameAccount renames an account. Past transactions keep the name they
// were captured with.
func (s *SQLiteStorage) RenameAccount(ctx context.Context, oldName, newName string) error {
	return s.renameOption(ctx, tableAccounts, oldName, newName)
}

// DeleteAccount removes an account.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, name string) error {
	return s.deleteOption(ctx, tableAccounts, name)
}

// RenameTag renames a tag. Tagged transactions show the new name.
func (s *SQLiteStorage) RenameTag(ctx context.Context, oldName, newName string) error {
	return s.renameOption(ctx, tableTags, oldName, newName)
}

// DeleteTag removes a tag and detaches it from every transaction.
func (s *SQLiteStorage) DeleteTag(ctx context.Context, name string) error {
	return s.deleteOption(ctx, tableTags, name)
}

// renameOption renames the row called oldName in table. It wraps
// common.ErrNotFound when oldName is unknown and common.ErrDuplicateEntry
// when another row already uses newName. Changing only the case of a name
// is allowed.
func (s *SQLiteStorage) renameOption(ctx context.Context, table, oldName, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(oldName, "oldName"); err != nil {
		return err
	}
	if err := validateString(newName, "newName"); err != nil {
		return err
	}
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	kind := singular(table)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := lookupID(ctx, tx, table, oldName)
		if err != nil {
			return err
		}
		if id == 0 {
			return fmt.Errorf("%s %q: %w", kind, oldName, common.ErrNotFound)
		}

		other, err := lookupID(ctx, tx, table, newName)
		if err != nil {
			return err
		}
		if other != 0 && other != id {
			return fmt.Errorf("%s %q: %w", kind, newName, common.ErrDuplicateEntry)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET name = ? WHERE id = ?`, newName, id); err != nil {
			return fmt.Errorf("failed to rename %s: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("renamed "+kind, "from", oldName, "to", newName)
	return nil
}

// deleteOption removes the row called name from table, wrapping
// common.ErrNotFound when there is none.
func (s *SQLiteStorage) deleteOption(ctx context.Context, table, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	kind := singular(table)

	result, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted %s: %w", kind, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, common.ErrNotFound)
	}

	slog.Info("deleted "+kind, "name", name)
	return nil
}

// lookupID returns the id of the row called name, or 0 when there is none.
func lookupID(ctx context.Context, tx *sql.Tx, table, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", singular(table), err)
	}
	return id, nil
}

func singular(table string) string {
	if table == tableCategories {
		return "category"
	}
	return strings.TrimSuffix(table, "s")
}

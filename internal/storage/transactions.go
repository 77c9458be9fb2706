package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/service"
)

const transactionColumns = `id, date, amount_cents, merchant, category, account, status, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var (
		txn    model.Transaction
		amount int64
		status string
	)
	err := row.Scan(&txn.ID, &txn.Date, &amount, &txn.Merchant, &txn.Category, &txn.Account, &status, &txn.CreatedAt)
	txn.Amount = model.Amount(amount)
	txn.Status = model.TransactionStatus(status)
	txn.Date = txn.Date.Local()
	return txn, err
}

// AddTransaction stores a captured transaction and its tag links in one
// database transaction. The ID and CreatedAt fields are set on success.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	if txn.Status == "" {
		txn.Status = model.StatusReview
	}
	createdAt := time.Now()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (date, amount_cents, merchant, category, account, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			txn.Date.UTC(), int64(txn.Amount), txn.Merchant, txn.Category, txn.Account, string(txn.Status), createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get transaction ID: %w", err)
		}

		for _, tagID := range txn.TagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
				id, tagID); err != nil {
				return fmt.Errorf("failed to link tag %d: %w", tagID, err)
			}
		}

		txn.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	txn.CreatedAt = createdAt
	slog.Info("saved transaction",
		"id", txn.ID,
		"amount", txn.Amount.String(),
		"merchant", txn.Merchant,
		"tags", len(txn.TagIDs))
	return nil
}

// GetTransaction returns the transaction with the given ID, or an error
// wrapping common.ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	txn, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	txns := []model.Transaction{txn}
	if err := s.loadTags(ctx, txns); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

// ListTransactions returns transactions newest first, filtered by date range
// and paged with Limit and Offset. A zero Limit returns every match.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}

	// Dates are stored as UTC text, so range bounds compare lexically.
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any
	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, filter.EndDate.UTC())
	}
	query += ` ORDER BY date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if err := s.loadTags(ctx, txns); err != nil {
		return nil, err
	}

	slog.Debug("retrieved transactions", "count", len(txns))
	return txns, nil
}

// loadTags fills TagIDs and Tags for txns in place.
func (s *SQLiteStorage) loadTags(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	index := make(map[int64]int, len(txns))
	placeholders := make([]string, len(txns))
	args := make([]any, len(txns))
	for i, txn := range txns {
		index[txn.ID] = i
		placeholders[i] = "?"
		args[i] = txn.ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tt.transaction_id, t.id, t.name
		FROM transaction_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.transaction_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY t.name COLLATE NOCASE`, args...)
	if err != nil {
		return fmt.Errorf("failed to query transaction tags: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		var txnID, tagID int64
		var name string
		if err := rows.Scan(&txnID, &tagID, &name); err != nil {
			return fmt.Errorf("failed to scan transaction tag: %w", err)
		}
		i, ok := index[txnID]
		if !ok {
			continue
		}
		txns[i].TagIDs = append(txns[i].TagIDs, tagID)
		txns[i].Tags = append(txns[i].Tags, name)
	}
	return rows.Err()
}

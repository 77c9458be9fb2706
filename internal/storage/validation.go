// Package storage provides the data persistence layer for captured transactions
// and the reference data offered on the capture wheels.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wapinheiro/money/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidTag         = errors.New("invalid tag")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if txn.Amount > model.MaxAmount {
		return fmt.Errorf("%w: amount exceeds %s", ErrInvalidTransaction, model.MaxAmount.Display())
	}
	return nil
}

// validateTagDraft validates the user input for a new tag.
func validateTagDraft(draft model.OptionDraft) error {
	if err := validateString(draft.Name, "name"); err != nil {
		return err
	}
	switch draft.TagType {
	case model.TagTypePermanent, "":
		return nil
	case model.TagTypeTemporary:
		if draft.StartDate == nil || draft.EndDate == nil {
			return fmt.Errorf("%w: temporary tags need start and end dates", ErrInvalidTag)
		}
		if draft.EndDate.Before(*draft.StartDate) {
			return fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *draft.EndDate, *draft.StartDate)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTag, draft.TagType)
	}
}

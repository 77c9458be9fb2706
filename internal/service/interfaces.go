// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/wapinheiro/money/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Results are ordered newest first.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ReferenceData lists the options offered on the capture wheels.
type ReferenceData interface {
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	ReferenceData

	// Option creation. Creating a name that already exists returns the
	// existing record.
	CreateMerchant(ctx context.Context, name string) (*model.Merchant, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	CreateAccount(ctx context.Context, name string) (*model.Account, error)
	CreateTag(ctx context.Context, draft model.OptionDraft) (*model.Tag, error)

	// Option management. Both wrap common.ErrNotFound for unknown names;
	// renaming onto another option's name wraps common.ErrDuplicateEntry.
	RenameMerchant(ctx context.Context, oldName, newName string) error
	DeleteMerchant(ctx context.Context, name string) error
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
	RenameAccount(ctx context.Context, oldName, newName string) error
	DeleteAccount(ctx context.Context, name string) error
	RenameTag(ctx context.Context, oldName, newName string) error
	DeleteTag(ctx context.Context, name string) error

	// Seeding. Records are matched by name and updated in place.
	UpsertCategory(ctx context.Context, category *model.Category) error
	UpsertMerchant(ctx context.Context, merchant *model.Merchant) error
	UpsertAccount(ctx context.Context, account *model.Account) error
	UpsertTag(ctx context.Context, tag *model.Tag) error

	// Transaction operations
	AddTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wapinheiro/money/internal/seed"
)

// SeedProgress is called after each seeded record with its kind and name.
type SeedProgress func(kind, name string)

// ApplySeed upserts the seed document by name: categories first so merchants
// can reference them, then merchants, accounts and tags. Running it twice
// leaves the database unchanged.
func (s *SQLiteStorage) ApplySeed(ctx context.Context, data *seed.Data, onItem SeedProgress) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: seed data", ErrNilParameter)
	}
	if onItem == nil {
		onItem = func(string, string) {}
	}

	for _, c := range data.Categories {
		cat := c.Model()
		if err := s.UpsertCategory(ctx, &cat); err != nil {
			return err
		}
		onItem("category", cat.Name)
	}

	for _, m := range data.Merchants {
		merchant := m.Model()
		if err := s.UpsertMerchant(ctx, &merchant); err != nil {
			return err
		}
		onItem("merchant", merchant.Name)
	}

	for _, a := range data.Accounts {
		account, err := a.Model()
		if err != nil {
			return err
		}
		if err := s.UpsertAccount(ctx, &account); err != nil {
			return err
		}
		onItem("account", account.Name)
	}

	for _, t := range data.Tags {
		tag, err := t.Model()
		if err != nil {
			return err
		}
		if err := s.UpsertTag(ctx, &tag); err != nil {
			return err
		}
		onItem("tag", tag.Name)
	}

	slog.Info("applied seed data",
		"categories", len(data.Categories),
		"merchants", len(data.Merchants),
		"accounts", len(data.Accounts),
		"tags", len(data.Tags))
	return nil
}

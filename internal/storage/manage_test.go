package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/service"
)

func TestRenameCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Dining")
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "Coffee")
	require.NoError(t, err)
	require.NoError(t, store.UpsertMerchant(ctx, &model.Merchant{Name: "Starbucks", DefaultCategory: "Dining"}))
	require.NoError(t, store.AddTransaction(ctx, &model.Transaction{
		Date:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local),
		Amount:   450,
		Merchant: "Starbucks",
		Category: "Dining",
	}))

	require.NoError(t, store.RenameCategory(ctx, " dining ", "Restaurants"))

	cat, err := store.GetCategoryByName(ctx, "Restaurants")
	require.NoError(t, err)
	require.NotNil(t, cat)
	gone, err := store.GetCategoryByName(ctx, "Dining")
	require.NoError(t, err)
	assert.Nil(t, gone)

	merchant, err := store.GetMerchantByName(ctx, "Starbucks")
	require.NoError(t, err)
	require.NotNil(t, merchant)
	assert.Equal(t, "Restaurants", merchant.DefaultCategory, "merchants follow the category by id")

	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Dining", txns[0].Category, "history keeps the captured name")

	t.Run("case only", func(t *testing.T) {
		require.NoError(t, store.RenameCategory(ctx, "restaurants", "RESTAURANTS"))
		cat, err := store.GetCategoryByName(ctx, "restaurants")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "RESTAURANTS", cat.Name)
	})

	t.Run("onto another name", func(t *testing.T) {
		err := store.RenameCategory(ctx, "RESTAURANTS", "coffee")
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	})

	t.Run("unknown", func(t *testing.T) {
		err := store.RenameCategory(ctx, "Travel", "Trips")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("empty names", func(t *testing.T) {
		assert.ErrorIs(t, store.RenameCategory(ctx, " ", "Trips"), ErrEmptyString)
		assert.ErrorIs(t, store.RenameCategory(ctx, "Coffee", ""), ErrEmptyString)
	})
}

func TestDeleteCategory_ClearsMerchantDefault(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Dining")
	require.NoError(t, err)
	require.NoError(t, store.UpsertMerchant(ctx, &model.Merchant{Name: "Starbucks", DefaultCategory: "Dining"}))

	require.NoError(t, store.DeleteCategory(ctx, "DINING"))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	merchant, err := store.GetMerchantByName(ctx, "Starbucks")
	require.NoError(t, err)
	require.NotNil(t, merchant)
	assert.Empty(t, merchant.DefaultCategory)
	assert.Zero(t, merchant.DefaultCategoryID)

	assert.ErrorIs(t, store.DeleteCategory(ctx, "Dining"), common.ErrNotFound)
}

func TestRenameAndDeleteMerchantAndAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateMerchant(ctx, "Starbux")
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, "Checking")
	require.NoError(t, err)

	require.NoError(t, store.RenameMerchant(ctx, "Starbux", "Starbucks"))
	merchants, err := store.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, "Starbucks", merchants[0].Name)

	require.NoError(t, store.RenameAccount(ctx, "checking", "MACU"))
	acct, err := store.GetAccountByName(ctx, "macu")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "MACU", acct.Name)

	require.NoError(t, store.DeleteMerchant(ctx, "Starbucks"))
	require.NoError(t, store.DeleteAccount(ctx, "MACU"))

	merchants, err = store.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Empty(t, merchants)
	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.ErrorIs(t, store.DeleteMerchant(ctx, "Starbucks"), common.ErrNotFound)
	assert.ErrorIs(t, store.RenameAccount(ctx, "MACU", "Savings"), common.ErrNotFound)
}

func TestRenameAndDeleteTag(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	trip, err := store.CreateTag(ctx, model.OptionDraft{Name: "Trip"})
	require.NoError(t, err)
	_, err = store.CreateTag(ctx, model.OptionDraft{Name: "Work"})
	require.NoError(t, err)
	txn := &model.Transaction{
		Date:   time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local),
		Amount: 1200,
		TagIDs: []int64{trip.ID},
	}
	require.NoError(t, store.AddTransaction(ctx, txn))

	require.NoError(t, store.RenameTag(ctx, "Trip", "Vegas"))
	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegas"}, got.Tags, "tagged transactions show the new name")

	assert.ErrorIs(t, store.RenameTag(ctx, "Vegas", "work"), common.ErrDuplicateEntry)

	require.NoError(t, store.DeleteTag(ctx, "vegas"))
	got, err = store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.TagIDs)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Work", tags[0].Name)
}

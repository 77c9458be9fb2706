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

func TestAddTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	trip, err := store.CreateTag(ctx, model.OptionDraft{Name: "Trip"})
	require.NoError(t, err)
	work, err := store.CreateTag(ctx, model.OptionDraft{Name: "Alpha"})
	require.NoError(t, err)

	date := time.Date(2024, 6, 1, 12, 30, 0, 0, time.Local)
	txn := &model.Transaction{
		Date:     date,
		Amount:   1250,
		Merchant: "Starbucks",
		Category: "Dining",
		Account:  "MACU",
		TagIDs:   []int64{trip.ID, work.ID},
	}
	require.NoError(t, store.AddTransaction(ctx, txn))
	assert.NotZero(t, txn.ID)
	assert.False(t, txn.CreatedAt.IsZero())
	assert.Equal(t, model.StatusReview, txn.Status)

	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(date))
	assert.Equal(t, model.Amount(1250), got.Amount)
	assert.Equal(t, "Starbucks", got.Merchant)
	assert.Equal(t, "Dining", got.Category)
	assert.Equal(t, "MACU", got.Account)
	assert.Equal(t, model.StatusReview, got.Status)
	assert.Equal(t, []string{"Alpha", "Trip"}, got.Tags)
	assert.ElementsMatch(t, []int64{trip.ID, work.ID}, got.TagIDs)
}

func TestAddTransaction_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		txn  *model.Transaction
		name string
	}{
		{name: "nil", txn: nil},
		{name: "zero amount", txn: &model.Transaction{Date: time.Now()}},
		{name: "missing date", txn: &model.Transaction{Amount: 100}},
		{name: "too large", txn: &model.Transaction{Date: time.Now(), Amount: model.MaxAmount + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.AddTransaction(ctx, tt.txn))
		})
	}

	err := store.AddTransaction(ctx, &model.Transaction{Date: time.Now(), Amount: 100, TagIDs: []int64{999}})
	assert.Error(t, err, "unknown tags are rejected")

	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns, "a failed insert leaves nothing behind")
}

func TestGetTransaction_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetTransaction(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.AddTransaction(ctx, &model.Transaction{
			Date:     base.AddDate(0, 0, i),
			Amount:   model.Amount(100 * (i + 1)),
			Merchant: "Shop",
		}))
	}

	all, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, model.Amount(500), all[0].Amount, "newest first")
	assert.Nil(t, all[0].Tags)

	page, err := store.ListTransactions(ctx, service.TransactionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, model.Amount(400), page[0].Amount)
	assert.Equal(t, model.Amount(300), page[1].Amount)

	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 3)
	ranged, err := store.ListTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	_, err = store.ListTransactions(ctx, service.TransactionFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapinheiro/money/internal/model"
)

func TestDefault(t *testing.T) {
	data, err := Default()
	require.NoError(t, err)

	assert.Len(t, data.Categories, 5)
	assert.Len(t, data.Merchants, 7)
	assert.Len(t, data.Accounts, 4)
	assert.Empty(t, data.Tags)
	assert.Equal(t, 16, data.Len())

	starbucks := data.Merchants[0].Model()
	assert.Equal(t, "Starbucks", starbucks.Name)
	assert.Equal(t, "Dining", starbucks.DefaultCategory)
	assert.Equal(t, []string{"SBUX", "Starbucks Coffee"}, starbucks.Aliases)
	assert.Equal(t, "5812", starbucks.MCC)

	income := data.Categories[4].Model()
	assert.Equal(t, model.CategoryTypeIncome, income.Type)

	macu, err := data.Accounts[2].Model()
	require.NoError(t, err)
	assert.Equal(t, model.Amount(125000), macu.Balance)
	assert.Equal(t, model.AccountTypeChecking, macu.Type)
}

func TestLoad(t *testing.T) {
	doc := `
categories:
  - name: Travel
tags:
  - name: Japan Trip
    type: temporary
    start: "2024-03-01"
    end: "2024-03-14"
  - name: Work
`
	data, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, data.Tags, 2)

	assert.Equal(t, model.CategoryTypeExpense, data.Categories[0].Model().Type)

	trip, err := data.Tags[0].Model()
	require.NoError(t, err)
	assert.Equal(t, model.TagTypeTemporary, trip.Type)
	require.NotNil(t, trip.StartDate)
	require.NotNil(t, trip.EndDate)
	assert.Equal(t, 14, trip.EndDate.Day())

	work, err := data.Tags[1].Model()
	require.NoError(t, err)
	assert.Equal(t, model.TagTypePermanent, work.Type)
	assert.Nil(t, work.EndDate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader("categories:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")

	data, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, data.Len())

	_, err = Tag{Name: "Bad", End: "14/03/2024"}.Model()
	assert.Error(t, err)

	_, err = Account{Name: "Bad", Balance: "lots"}.Model()
	assert.Error(t, err)
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapinheiro/money/internal/model"
)

func TestWriteOFX(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{
			ID:       7,
			Date:     time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
			Amount:   1250,
			Merchant: "Starbucks",
			Category: "Dining",
			Account:  "MACU",
			Tags:     []string{"Trip"},
		},
		{
			ID:     8,
			Date:   time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
			Amount: 99,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOFX(&buf, txns, Options{Now: func() time.Time { return now }}))

	resp, err := ofxgo.ParseResponse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, resp.Bank, 1)

	stmt, ok := resp.Bank[0].(*ofxgo.StatementResponse)
	require.True(t, ok)
	assert.Equal(t, "MONEY", string(stmt.BankAcctFrom.AcctID))
	require.NotNil(t, stmt.BankTranList)
	require.Len(t, stmt.BankTranList.Transactions, 2)

	first := stmt.BankTranList.Transactions[0]
	assert.Equal(t, ofxgo.TrnTypeDebit, first.TrnType)
	assert.Equal(t, "7", string(first.FiTID))
	assert.Equal(t, "Starbucks", string(first.Name))
	assert.Equal(t, "Dining / MACU / #Trip", string(first.Memo))
	amount, _ := first.TrnAmt.Float64()
	assert.InDelta(t, -12.50, amount, 0.001)
	assert.True(t, stmt.BankTranList.DtStart.Time.Equal(txns[0].Date))

	second := stmt.BankTranList.Transactions[1]
	assert.Equal(t, "Unknown", string(second.Name))
	assert.Empty(t, string(second.Memo))
}

func TestWriteOFX_InvalidCurrency(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOFX(&buf, nil, Options{Currency: "NOPE"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

// Package export writes captured transactions in formats other tools import.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/wapinheiro/money/internal/model"
)

// Options describe the statement wrapper around exported transactions.
type Options struct {
	Now       func() time.Time
	AccountID string
	BankID    string
	Currency  string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.AccountID == "" {
		o.AccountID = "MONEY"
	}
	if o.BankID == "" {
		o.BankID = "000000000"
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	return o
}

// WriteOFX writes txns as an OFX 2.0.3 bank statement. Every transaction is
// a debit: NAME carries the merchant, MEMO the category and account, FITID
// the stored ID.
func WriteOFX(w io.Writer, txns []model.Transaction, opts Options) error {
	opts = opts.withDefaults()
	now := opts.Now()

	currency, err := ofxgo.NewCurrSymbol(opts.Currency)
	if err != nil {
		return fmt.Errorf("invalid currency %q: %w", opts.Currency, err)
	}

	list := &ofxgo.TransactionList{
		DtStart: ofxgo.Date{Time: now},
		DtEnd:   ofxgo.Date{Time: now},
	}
	for _, txn := range txns {
		list.Transactions = append(list.Transactions, toOFX(txn))
		if txn.Date.Before(list.DtStart.Time) {
			list.DtStart = ofxgo.Date{Time: txn.Date}
		}
	}

	stmt := &ofxgo.StatementResponse{
		TrnUID: ofxgo.UID(strconv.FormatInt(now.Unix(), 10)),
		Status: ofxgo.Status{Code: 0, Severity: "INFO"},
		CurDef: *currency,
		BankAcctFrom: ofxgo.BankAcct{
			BankID:   ofxgo.String(opts.BankID),
			AcctID:   ofxgo.String(opts.AccountID),
			AcctType: ofxgo.AcctTypeChecking,
		},
		BankTranList: list,
		DtAsOf:       ofxgo.Date{Time: now},
	}

	resp := ofxgo.Response{
		Version: ofxgo.OfxVersion203,
		Signon: ofxgo.SignonResponse{
			Status:   ofxgo.Status{Code: 0, Severity: "INFO"},
			DtServer: ofxgo.Date{Time: now},
			Language: "ENG",
		},
		Bank: []ofxgo.Message{stmt},
	}

	buf, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode OFX: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write OFX: %w", err)
	}

	slog.Info("exported OFX statement", "transactions", len(txns), "account", opts.AccountID)
	return nil
}

func toOFX(txn model.Transaction) ofxgo.Transaction {
	out := ofxgo.Transaction{
		TrnType:  ofxgo.TrnTypeDebit,
		DtPosted: ofxgo.Date{Time: txn.Date},
		FiTID:    ofxgo.String(strconv.FormatInt(txn.ID, 10)),
		Name:     ofxgo.String(nameOrUnknown(txn.Merchant)),
		Memo:     ofxgo.String(memo(txn)),
	}
	out.TrnAmt.SetFrac64(-int64(txn.Amount), 100)
	return out
}

func nameOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func memo(txn model.Transaction) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{txn.Category, txn.Account} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(txn.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(txn.Tags, " #"))
	}
	return strings.Join(parts, " / ")
}

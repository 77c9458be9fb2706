package model

import "time"

// AccountType describes the funding source of an account.
type AccountType string

const (
	AccountTypeCredit   AccountType = "credit"
	AccountTypeDebit    AccountType = "debit"
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCash     AccountType = "cash"
)

// CashAccountName labels the account placeholder used when none exist.
const CashAccountName = "Cash"

// Account is where money for a transaction comes from.
type Account struct {
	CreatedAt   time.Time
	Name        string
	Institution string
	Type        AccountType
	Color       string
	ID          int64
	Balance     Amount
}

// Item converts the account into a wheel option.
func (a Account) Item() SelectableItem {
	return SelectableItem{
		ID:       a.ID,
		Label:    a.Name,
		Value:    a.Name,
		SubLabel: a.Institution,
		Icon:     "💳",
		Color:    a.Color,
	}
}

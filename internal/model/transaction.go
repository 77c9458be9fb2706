package model

import "time"

// TransactionStatus tracks where a captured transaction is in its lifecycle.
type TransactionStatus string

// StatusReview marks a transaction captured on the wheel that still needs reconciling.
const StatusReview TransactionStatus = "review"

// Transaction is a captured purchase. Merchant, category and account are
// stored by label so that a later rename does not rewrite history.
type Transaction struct {
	Date      time.Time
	CreatedAt time.Time
	Merchant  string
	Category  string
	Account   string
	Status    TransactionStatus
	TagIDs    []int64
	Tags      []string // Tag names, populated on reads
	ID        int64
	Amount    Amount
}

// OptionDraft carries user input for a new merchant, category, account or tag.
type OptionDraft struct {
	StartDate *time.Time
	EndDate   *time.Time
	Name      string
	TagType   TagType // Only used for tags
}

// Prediction is a best guess for the fields of a new capture.
type Prediction struct {
	Merchant SelectableItem
	Category SelectableItem
	Account  SelectableItem
}

// Fields returns the non-empty predicted values keyed by review field.
func (p Prediction) Fields() map[FieldKey]SelectableItem {
	out := make(map[FieldKey]SelectableItem, 3)
	if !p.Merchant.IsZero() {
		out[FieldMerchant] = p.Merchant
	}
	if !p.Category.IsZero() {
		out[FieldCategory] = p.Category
	}
	if !p.Account.IsZero() {
		out[FieldAccount] = p.Account
	}
	return out
}

package model

import "time"

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// UncategorizedName labels a category placeholder that has no backing row.
const UncategorizedName = "Uncategorized"

// Category represents a spending or income category.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	Color     string
	Type      CategoryType
	ID        int64
}

// Item converts the category into a wheel option.
func (c Category) Item() SelectableItem {
	return SelectableItem{
		ID:       c.ID,
		Label:    c.Name,
		Value:    c.Name,
		SubLabel: string(c.Type),
		Icon:     c.Icon,
		Color:    c.Color,
	}
}

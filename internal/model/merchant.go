package model

import "time"

// Merchant is a payee a purchase can be attributed to.
type Merchant struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	Color     string
	MCC       string // Merchant category code, e.g. "5812"
	// DefaultCategory is the name of the category the merchant usually
	// books to. Empty when unknown.
	DefaultCategory   string
	Aliases           []string
	ID                int64
	DefaultCategoryID int64
}

// Item converts the merchant into a wheel option.
func (m Merchant) Item() SelectableItem {
	return SelectableItem{
		ID:       m.ID,
		Label:    m.Name,
		Value:    m.Name,
		SubLabel: m.DefaultCategory,
		Icon:     m.Icon,
		Color:    m.Color,
	}
}

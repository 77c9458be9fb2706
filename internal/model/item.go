package model

import (
	"fmt"
	"strings"
)

// FieldKey names one of the editable rows of a capture session.
type FieldKey string

// Review rows, in wheel order.
const (
	FieldAmount   FieldKey = "amount"
	FieldMerchant FieldKey = "merchant"
	FieldCategory FieldKey = "category"
	FieldAccount  FieldKey = "account"
	FieldTags     FieldKey = "tags"
	FieldSave     FieldKey = "save"
)

// ReviewFields is the fixed navigation order of the review wheel.
var ReviewFields = []FieldKey{
	FieldAmount,
	FieldMerchant,
	FieldCategory,
	FieldAccount,
	FieldTags,
	FieldSave,
}

// Title returns the human readable row label.
func (f FieldKey) Title() string {
	switch f {
	case FieldAmount:
		return "Amount"
	case FieldMerchant:
		return "Merchant"
	case FieldCategory:
		return "Category"
	case FieldAccount:
		return "Account"
	case FieldTags:
		return "Tags"
	case FieldSave:
		return "Save"
	default:
		return string(f)
	}
}

// IsSingleSelect reports whether confirming an option replaces the field value.
func (f FieldKey) IsSingleSelect() bool {
	return f == FieldMerchant || f == FieldCategory || f == FieldAccount
}

// IsMultiSelect reports whether confirming an option toggles it in a set.
func (f FieldKey) IsMultiSelect() bool {
	return f == FieldTags
}

// HasOptions reports whether the field is edited by picking from a list.
func (f FieldKey) HasOptions() bool {
	return f.IsSingleSelect() || f.IsMultiSelect()
}

// CreateNewValue marks the synthetic "create new" option.
const CreateNewValue = "NEW"

// SelectableItem is one entry on a selection wheel.
type SelectableItem struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	SubLabel string `json:"subLabel,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
	// ID references the backing record; zero for synthetic entries.
	ID int64 `json:"id,omitempty"`
}

// CreateNewItem returns the synthetic option that opens value creation.
func CreateNewItem() SelectableItem {
	return SelectableItem{
		Label: "+ Create New",
		Value: CreateNewValue,
		Icon:  "+",
		Color: "#8E8E93",
	}
}

// IsCreateNew reports whether the item is the synthetic create option.
func (i SelectableItem) IsCreateNew() bool {
	return i.Value == CreateNewValue && i.ID == 0
}

// IsZero reports whether the item is unset.
func (i SelectableItem) IsZero() bool {
	return i.ID == 0 && i.Label == "" && i.Value == ""
}

// Key identifies the item for equality checks: backing ID when present,
// otherwise the case-folded label.
func (i SelectableItem) Key() string {
	if i.ID != 0 {
		return fmt.Sprintf("id:%d", i.ID)
	}
	return "label:" + strings.ToLower(strings.TrimSpace(i.Label))
}

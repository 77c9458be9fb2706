package capture

import (
	"fmt"
	"strings"

	"github.com/wapinheiro/money/internal/model"
)

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	Fields     map[model.FieldKey]model.SelectableItem
	Status     string
	Editing    model.FieldKey
	Tags       []model.SelectableItem
	Items      []model.SelectableItem // Wedges of the active wheel
	Generation uint64
	FocusIndex int
	Mode       Mode
	Amount     model.Amount
	Busy       bool
}

// Snapshot captures the current state.
func (c *Controller) Snapshot() Snapshot {
	s := c.session.clone()
	snap := Snapshot{
		Mode:       c.mode,
		Amount:     s.Amount,
		Fields:     s.Fields,
		Tags:       s.Tags,
		Editing:    c.editing,
		Status:     c.status,
		Generation: c.generation,
		Busy:       c.Busy(),
	}

	switch c.mode {
	case ModeNumericEntry:
		snap.Items = Keypad
		snap.FocusIndex = c.keypad.Index()
	case ModeFieldReview:
		snap.Items = reviewItems(s)
		snap.FocusIndex = c.review.Index()
	case ModeFieldEdit, ModeValueCreation:
		items := make([]model.SelectableItem, c.options.Len())
		copy(items, c.options.Items())
		snap.Items = items
		snap.FocusIndex = c.options.Index()
	}
	return snap
}

// reviewItems renders each review row with its current value as the sub label.
func reviewItems(s Session) []model.SelectableItem {
	items := make([]model.SelectableItem, 0, len(model.ReviewFields))
	for _, field := range model.ReviewFields {
		item := model.SelectableItem{Label: field.Title(), Value: string(field)}
		switch field {
		case model.FieldAmount:
			item.SubLabel = s.Amount.Display()
		case model.FieldTags:
			item.SubLabel = tagSummary(s.Tags)
		case model.FieldSave:
			item.Icon = "✓"
		default:
			if v, ok := s.Fields[field]; ok {
				item.SubLabel = v.Label
				item.Icon = v.Icon
				item.Color = v.Color
			} else {
				item.SubLabel = "—"
			}
		}
		items = append(items, item)
	}
	return items
}

func tagSummary(tags []model.SelectableItem) string {
	switch len(tags) {
	case 0:
		return "None"
	case 1, 2:
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Label
		}
		return strings.Join(names, ", ")
	default:
		return fmt.Sprintf("%d tags", len(tags))
	}
}

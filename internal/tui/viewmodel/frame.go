// Package viewmodel builds the render-ready presentation frame of the
// capture screen. The terminal view and the broadcast stream both render
// from the same Frame so they never disagree.
package viewmodel

import (
	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/model"
)

// Frame is one presentation state of the capture screen.
type Frame struct {
	Fields           map[model.FieldKey]model.SelectableItem `json:"fields,omitempty"`
	Mode             string                                  `json:"mode"`
	Amount           string                                  `json:"amount"`
	Status           string                                  `json:"status,omitempty"`
	Editing          model.FieldKey                          `json:"editing,omitempty"`
	Items            []model.SelectableItem                  `json:"items"`
	Tags             []model.SelectableItem                  `json:"tags,omitempty"`
	RotationAngleDeg float64                                 `json:"rotationAngleDeg"`
	Generation       uint64                                  `json:"generation"`
	FocusIndex       int                                     `json:"focusIndex"`
	Busy             bool                                    `json:"busy"`
}

// Wedge is one slice of the dial, positioned on screen.
type Wedge struct {
	Item      model.SelectableItem
	CenterDeg float64 // Screen angle of the wedge centre
	Index     int
	Focused   bool
	Selected  bool // Tag wedges that are already attached
}

// FromSnapshot builds a frame from the controller state and the current
// dial rotation.
func FromSnapshot(s capture.Snapshot, rotationDeg float64) Frame {
	items := s.Items
	if items == nil {
		items = []model.SelectableItem{}
	}
	return Frame{
		Mode:             s.Mode.String(),
		Amount:           s.Amount.Display(),
		Status:           s.Status,
		Editing:          s.Editing,
		Items:            items,
		FocusIndex:       s.FocusIndex,
		Fields:           s.Fields,
		Tags:             s.Tags,
		RotationAngleDeg: rotationDeg,
		Generation:       s.Generation,
		Busy:             s.Busy,
	}
}

// Focused returns the focused item, if any.
func (f Frame) Focused() (model.SelectableItem, bool) {
	if f.FocusIndex < 0 || f.FocusIndex >= len(f.Items) {
		return model.SelectableItem{}, false
	}
	return f.Items[f.FocusIndex], true
}

// Wedges lays the items out around the dial.
func (f Frame) Wedges() []Wedge {
	attached := make(map[string]bool, len(f.Tags))
	if f.Editing.IsMultiSelect() {
		for _, t := range f.Tags {
			attached[t.Key()] = true
		}
	}

	out := make([]Wedge, len(f.Items))
	for i, item := range f.Items {
		out[i] = Wedge{
			Item:      item,
			Index:     i,
			CenterDeg: gesture.WedgeCenter(i, len(f.Items), f.RotationAngleDeg),
			Focused:   i == f.FocusIndex,
			Selected:  attached[item.Key()],
		}
	}
	return out
}

// CenterLabel is the text shown in the hub of the dial.
func (f Frame) CenterLabel() string {
	switch f.Mode {
	case capture.ModeNumericEntry.String():
		return f.Amount
	case capture.ModeFieldReview.String():
		return "Review"
	default:
		return f.Editing.Title()
	}
}

// Package capture implements the transaction capture flow: amount entry,
// field review, option editing and option creation. The controller is a
// pure state machine; it consumes events and returns commands for the host
// to execute, so it never blocks and never touches storage itself.
package capture

import (
	"fmt"
	"strconv"

	"github.com/wapinheiro/money/internal/model"
)

// Mode is the active step of the capture flow.
type Mode int

const (
	ModeNumericEntry Mode = iota
	ModeFieldReview
	ModeFieldEdit
	ModeValueCreation
)

func (m Mode) String() string {
	switch m {
	case ModeNumericEntry:
		return "numeric-entry"
	case ModeFieldReview:
		return "field-review"
	case ModeFieldEdit:
		return "field-edit"
	case ModeValueCreation:
		return "value-creation"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// DeleteKeyValue is the keypad wedge that removes the last digit.
const DeleteKeyValue = "del"

// Keypad lists the numeric wheel wedges in order.
var Keypad = buildKeypad()

func buildKeypad() []model.SelectableItem {
	keys := make([]model.SelectableItem, 0, 11)
	for d := 0; d <= 9; d++ {
		s := strconv.Itoa(d)
		keys = append(keys, model.SelectableItem{Label: s, Value: s})
	}
	return append(keys, model.SelectableItem{Label: "⌫", Value: DeleteKeyValue})
}

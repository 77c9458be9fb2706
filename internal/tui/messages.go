package tui

import "github.com/wapinheiro/money/internal/capture"

// eventMsg carries the result of a storage command back into the
// controller.
type eventMsg struct {
	event capture.Event
}

// frameMsg advances the inertia loop of one spin.
type frameMsg struct {
	epoch uint64
}

// committedMsg reports a saved transaction to the host.
type committedMsg struct {
	record capture.Committed
}

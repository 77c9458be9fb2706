package gesture

import "math"

// Detent spacing in degrees.
const (
	SelectionThresholdDeg  = 15.0 // Keypad and option wheels
	NavigationThresholdDeg = 45.0 // Review field navigation
)

// TickAccumulator converts continuous rotation into discrete detent steps.
// Rotation is summed until it reaches the threshold in either direction; a
// step is emitted and the threshold subtracted, carrying the remainder.
type TickAccumulator struct {
	threshold float64
	acc       float64
}

// NewTickAccumulator returns an accumulator with the given detent spacing.
func NewTickAccumulator(threshold float64) *TickAccumulator {
	return &TickAccumulator{threshold: threshold}
}

// Threshold returns the detent spacing.
func (a *TickAccumulator) Threshold() float64 {
	return a.threshold
}

// SetThreshold changes the detent spacing. The carried remainder is kept.
func (a *TickAccumulator) SetThreshold(threshold float64) {
	a.threshold = threshold
}

// Reset clears the carried remainder. Call it at the start of every gesture.
func (a *TickAccumulator) Reset() {
	a.acc = 0
}

// Remainder returns the rotation carried toward the next detent.
func (a *TickAccumulator) Remainder() float64 {
	return a.acc
}

// Add feeds delta degrees and returns one direction (+1 or -1) per detent
// crossed. A non-positive threshold never emits.
func (a *TickAccumulator) Add(delta float64) []int {
	a.acc += delta
	if a.threshold <= 0 {
		return nil
	}
	var ticks []int
	for math.Abs(a.acc) >= a.threshold {
		dir := 1
		if a.acc < 0 {
			dir = -1
		}
		ticks = append(ticks, dir)
		a.acc -= float64(dir) * a.threshold
	}
	return ticks
}

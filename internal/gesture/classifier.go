package gesture

import "math"

// DefaultTapThresholdDeg is the most a release may have rotated and still count as a tap.
const DefaultTapThresholdDeg = 5.0

// ReleaseKind says what a completed press turned out to be.
type ReleaseKind int

const (
	ReleaseTap ReleaseKind = iota
	ReleaseDrag
)

func (k ReleaseKind) String() string {
	if k == ReleaseTap {
		return "tap"
	}
	return "drag"
}

// GestureClassifier separates taps from drags by the total rotation seen
// between press and release.
type GestureClassifier struct {
	threshold float64
	distance  float64
}

// NewGestureClassifier returns a classifier with the given tap threshold.
func NewGestureClassifier(threshold float64) *GestureClassifier {
	return &GestureClassifier{threshold: threshold}
}

// Reset starts a new gesture.
func (c *GestureClassifier) Reset() {
	c.distance = 0
}

// Accumulate records a rotation change of diff degrees.
func (c *GestureClassifier) Accumulate(diff float64) {
	c.distance += math.Abs(diff)
}

// Distance returns the accumulated absolute rotation.
func (c *GestureClassifier) Distance() float64 {
	return c.distance
}

// Classify returns ReleaseTap when the gesture moved less than the threshold.
func (c *GestureClassifier) Classify() ReleaseKind {
	if c.distance < c.threshold {
		return ReleaseTap
	}
	return ReleaseDrag
}

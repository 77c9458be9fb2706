// Package gesture turns raw pointer samples into wheel rotation, detent
// ticks and tap/drag classification. It knows nothing about what the wheel
// is selecting; callers feed it samples and consume ticks.
package gesture

import "math"

// Source identifies the device that produced a sample. Gesture logic never
// branches on it; it exists for logging and diagnostics.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "mouse"
}

// PointerSample is one pointer position in the wheel's coordinate space.
type PointerSample struct {
	X      float64
	Y      float64
	Seq    uint64
	Source Source
}

// Rect is the bounding box of the wheel on screen.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the rotation axis of the wheel.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Radius returns the largest circle that fits inside the rect.
func (r Rect) Radius() float64 {
	return math.Min(r.Width, r.Height) / 2
}

// Angle returns the angle in degrees of (x, y) around the rect centre,
// measured with atan2 so that 0° points right and angles grow clockwise in
// screen coordinates.
func Angle(r Rect, x, y float64) float64 {
	cx, cy := r.Center()
	return math.Atan2(y-cy, x-cx) * 180 / math.Pi
}

// Distance returns how far (x, y) is from the rect centre.
func Distance(r Rect, x, y float64) float64 {
	cx, cy := r.Center()
	return math.Hypot(x-cx, y-cy)
}

// PointerTracker converts pointer positions into an absolute wheel rotation.
// At Begin it records the offset between the pointer angle and the current
// rotation so the wheel never jumps when a new drag starts.
type PointerTracker struct {
	rect      Rect
	lastAngle float64 // pointer angle at press minus rotation at press
	prevRaw   float64
	unwrapped float64
	active    bool
}

// Begin starts tracking a drag at sample with the wheel currently at
// currentRotation degrees.
func (t *PointerTracker) Begin(rect Rect, s PointerSample, currentRotation float64) {
	angle := Angle(rect, s.X, s.Y)
	t.rect = rect
	t.prevRaw = angle
	t.unwrapped = angle
	t.lastAngle = angle - currentRotation
	t.active = true
}

// Move returns the rotation implied by sample. The raw atan2 angle is
// unwrapped across the ±180° seam so a pointer circling the centre keeps
// accumulating rotation instead of snapping back by a full turn.
func (t *PointerTracker) Move(s PointerSample) (float64, bool) {
	if !t.active {
		return 0, false
	}
	raw := Angle(t.rect, s.X, s.Y)
	t.unwrapped += shortestDelta(t.prevRaw, raw)
	t.prevRaw = raw
	return t.unwrapped - t.lastAngle, true
}

// End stops tracking.
func (t *PointerTracker) End() {
	t.active = false
}

// Active reports whether a drag is being tracked.
func (t *PointerTracker) Active() bool {
	return t.active
}

// shortestDelta returns the signed angle in (-180, 180] that turns from into to.
func shortestDelta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// NormalizeAngle maps any angle into [0, 360).
func NormalizeAngle(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// WedgeAt returns the index of the wedge under a pointer at angleDeg on a
// wheel of count equal wedges rotated by rotationDeg. Wedge 0 is centred at
// -90° (the top of the wheel) before rotation and indices grow clockwise.
// It returns -1 when count is not positive.
func WedgeAt(angleDeg, rotationDeg float64, count int) int {
	if count <= 0 {
		return -1
	}
	span := 360 / float64(count)
	rel := NormalizeAngle(angleDeg - rotationDeg + 90 + span/2)
	idx := int(rel / span)
	if idx >= count {
		idx = count - 1
	}
	return idx
}

// WedgeCenter returns the screen angle of wedge i's centre on a wheel of
// count wedges rotated by rotationDeg.
func WedgeCenter(i, count int, rotationDeg float64) float64 {
	if count <= 0 {
		return 0
	}
	return -90 + float64(i)*360/float64(count) + rotationDeg
}

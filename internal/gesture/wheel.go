package gesture

import (
	"math"

	"github.com/wapinheiro/money/internal/haptics"
)

// WheelConfig tunes a Wheel.
type WheelConfig struct {
	Inertia          InertiaConfig
	TickThresholdDeg float64
	TapThresholdDeg  float64
	// FeedbackVelocity is the drag speed above which a light pulse is
	// emitted on every move, independent of detents.
	FeedbackVelocity float64
	// InertiaFeedbackVelocity plays the same role while spinning freely.
	InertiaFeedbackVelocity float64
}

// DefaultWheelConfig returns the standard selection wheel tuning.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{
		Inertia:                 DefaultInertia(),
		TickThresholdDeg:        SelectionThresholdDeg,
		TapThresholdDeg:         DefaultTapThresholdDeg,
		FeedbackVelocity:        1,
		InertiaFeedbackVelocity: 0.5,
	}
}

// Release describes the end of a press.
type Release struct {
	Kind     ReleaseKind
	Distance float64
	Epoch    uint64 // Pass to Frame while Inertia is true
	Inertia  bool
}

// Wheel combines pointer tracking, rotation, detents and tap detection into
// one rotary input. It is not safe for concurrent use; the UI loop owns it.
type Wheel struct {
	haptic     haptics.Pulser
	rotation   *RotationModel
	ticks      *TickAccumulator
	classifier *GestureClassifier
	tracker    PointerTracker
	cfg        WheelConfig

	// Light pulses on fast movement; off while navigating fields.
	velocityFeedback bool
}

// NewWheel returns a wheel at rest. A nil pulser disables feedback.
func NewWheel(cfg WheelConfig, pulser haptics.Pulser) *Wheel {
	if pulser == nil {
		pulser = haptics.Noop{}
	}
	return &Wheel{
		cfg:        cfg,
		haptic:     pulser,
		rotation:   NewRotationModel(cfg.Inertia),
		ticks:      NewTickAccumulator(cfg.TickThresholdDeg),
		classifier: NewGestureClassifier(cfg.TapThresholdDeg),

		velocityFeedback: true,
	}
}

// State returns the current motion state.
func (w *Wheel) State() RotationState {
	return w.rotation.State()
}

// Epoch returns the current spin identity.
func (w *Wheel) Epoch() uint64 {
	return w.rotation.Epoch()
}

// Threshold returns the detent spacing in degrees.
func (w *Wheel) Threshold() float64 {
	return w.ticks.Threshold()
}

// SetThreshold changes the detent spacing, e.g. when the wheel switches
// between field navigation and option selection.
func (w *Wheel) SetThreshold(deg float64) {
	w.ticks.SetThreshold(deg)
}

// SetVelocityFeedback turns the light pulses for fast movement on or off.
// Detent pulses are unaffected.
func (w *Wheel) SetVelocityFeedback(enabled bool) {
	w.velocityFeedback = enabled
}

// Pressed reports whether a press is in progress.
func (w *Wheel) Pressed() bool {
	return w.tracker.Active()
}

// Press starts a gesture at sample. Any running spin stops immediately.
func (w *Wheel) Press(rect Rect, s PointerSample) {
	w.rotation.BeginDrag()
	w.tracker.Begin(rect, s, w.rotation.State().AngleDeg)
	w.ticks.Reset()
	w.classifier.Reset()
}

// Move follows the pointer and returns the detents crossed by this move.
func (w *Wheel) Move(s PointerSample) []int {
	newRotation, ok := w.tracker.Move(s)
	if !ok {
		return nil
	}
	diff := w.rotation.DragTo(newRotation)
	w.classifier.Accumulate(diff)

	if w.velocityFeedback && math.Abs(diff) > w.cfg.FeedbackVelocity {
		w.haptic.Pulse(haptics.Light)
	}
	return w.emit(w.ticks.Add(diff))
}

// Release ends the gesture. It returns false when no press was active.
// Taps never spin.
func (w *Wheel) Release() (Release, bool) {
	if !w.tracker.Active() {
		return Release{}, false
	}
	w.tracker.End()
	spin := w.rotation.EndDrag()
	kind := w.classifier.Classify()
	if kind == ReleaseTap {
		w.rotation.Stop()
		spin = false
	}
	return Release{
		Kind:     kind,
		Distance: w.classifier.Distance(),
		Inertia:  spin,
		Epoch:    w.rotation.Epoch(),
	}, true
}

// Frame advances a spin by one tick. It returns the detents crossed and
// whether another frame should be scheduled. Frames from an older epoch,
// or arriving while the wheel is held, do nothing.
func (w *Wheel) Frame(epoch uint64) ([]int, bool) {
	if epoch != w.rotation.Epoch() {
		return nil, false
	}
	delta, running := w.rotation.Step()
	if !running {
		return nil, false
	}
	if w.velocityFeedback && math.Abs(delta) > w.cfg.InertiaFeedbackVelocity {
		w.haptic.Pulse(haptics.Light)
	}
	return w.emit(w.ticks.Add(delta)), true
}

// Stop cancels any spin.
func (w *Wheel) Stop() {
	w.rotation.Stop()
}

func (w *Wheel) emit(ticks []int) []int {
	for range ticks {
		w.haptic.Pulse(haptics.Tick)
	}
	return ticks
}

package gesture

import "math"

// Inertia defaults. Velocity is measured in degrees per scheduling tick.
const (
	DefaultDecay       = 0.95
	DefaultStopEpsilon = 0.1
)

// InertiaConfig tunes the free-spin after release.
type InertiaConfig struct {
	Decay       float64 // Velocity multiplier applied every tick, in (0, 1)
	StopEpsilon float64 // Spin stops once |velocity| drops below this
}

// DefaultInertia returns the standard decay and stop threshold.
func DefaultInertia() InertiaConfig {
	return InertiaConfig{Decay: DefaultDecay, StopEpsilon: DefaultStopEpsilon}
}

// RotationState is the single owned record of the wheel's motion.
type RotationState struct {
	AngleDeg           float64
	VelocityDegPerTick float64
	DragDistanceDeg    float64
	Dragging           bool
}

// RotationModel advances a RotationState through drags and inertia. Dragging
// and inertia are mutually exclusive: any drag start cancels a running spin,
// and a spin never advances while a drag is active. The model is intended to
// be driven from a single goroutine.
type RotationModel struct {
	state RotationState
	cfg   InertiaConfig
	epoch uint64
}

// NewRotationModel creates a model at rest at 0°.
func NewRotationModel(cfg InertiaConfig) *RotationModel {
	return &RotationModel{cfg: cfg}
}

// State returns a copy of the current motion state.
func (m *RotationModel) State() RotationState {
	return m.state
}

// Epoch identifies the current spin. It changes whenever a drag starts or
// ends so that continuations scheduled for an earlier spin can be ignored.
func (m *RotationModel) Epoch() uint64 {
	return m.epoch
}

// BeginDrag marks the wheel as held and cancels any spin.
func (m *RotationModel) BeginDrag() {
	m.epoch++
	m.state.Dragging = true
	m.state.VelocityDegPerTick = 0
	m.state.DragDistanceDeg = 0
}

// DragTo moves the wheel to newRotation and returns the signed change. The
// change becomes the instantaneous velocity used if the drag ends now.
func (m *RotationModel) DragTo(newRotation float64) float64 {
	if !m.state.Dragging {
		return 0
	}
	diff := newRotation - m.state.AngleDeg
	m.state.VelocityDegPerTick = diff
	m.state.AngleDeg = newRotation
	m.state.DragDistanceDeg += math.Abs(diff)
	return diff
}

// EndDrag releases the wheel and reports whether it should keep spinning.
func (m *RotationModel) EndDrag() bool {
	if !m.state.Dragging {
		return false
	}
	m.epoch++
	m.state.Dragging = false
	return math.Abs(m.state.VelocityDegPerTick) >= m.cfg.StopEpsilon
}

// Step runs one inertia tick. It returns the rotation applied and whether
// another tick should be scheduled. Once |velocity| is below StopEpsilon the
// spin is over and further calls are no-ops.
func (m *RotationModel) Step() (float64, bool) {
	if m.state.Dragging || math.Abs(m.state.VelocityDegPerTick) < m.cfg.StopEpsilon {
		return 0, false
	}
	m.state.VelocityDegPerTick *= m.cfg.Decay
	m.state.AngleDeg += m.state.VelocityDegPerTick
	return m.state.VelocityDegPerTick, true
}

// Stop halts any spin without changing the angle.
func (m *RotationModel) Stop() {
	m.epoch++
	m.state.VelocityDegPerTick = 0
}

// MaxInertiaSteps returns an upper bound on the number of Step calls that
// can apply rotation for an initial velocity v0.
func MaxInertiaSteps(v0 float64, cfg InertiaConfig) int {
	v := math.Abs(v0)
	if v < cfg.StopEpsilon || cfg.Decay <= 0 || cfg.Decay >= 1 {
		return 0
	}
	return int(math.Ceil(math.Log(cfg.StopEpsilon/v)/math.Log(cfg.Decay))) + 1
}

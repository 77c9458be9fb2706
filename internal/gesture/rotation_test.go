package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationModel_Drag(t *testing.T) {
	m := NewRotationModel(DefaultInertia())

	assert.Zero(t, m.DragTo(10), "drag before press is ignored")

	m.BeginDrag()
	assert.InDelta(t, 10, m.DragTo(10), 1e-9)
	assert.InDelta(t, -6, m.DragTo(4), 1e-9)

	s := m.State()
	assert.True(t, s.Dragging)
	assert.InDelta(t, 4, s.AngleDeg, 1e-9)
	assert.InDelta(t, -6, s.VelocityDegPerTick, 1e-9)
	assert.InDelta(t, 16, s.DragDistanceDeg, 1e-9)

	_, running := m.Step()
	assert.False(t, running, "no inertia while dragging")

	require.True(t, m.EndDrag())
	delta, running := m.Step()
	assert.True(t, running)
	assert.InDelta(t, -5.7, delta, 1e-9)
	assert.InDelta(t, 4-5.7, m.State().AngleDeg, 1e-9)
}

func TestRotationModel_InertiaTerminates(t *testing.T) {
	for _, v0 := range []float64{0.2, 1, 20, -45, 360} {
		m := NewRotationModel(DefaultInertia())
		m.BeginDrag()
		m.DragTo(v0)
		require.True(t, m.EndDrag())

		steps := 0
		for {
			_, running := m.Step()
			if !running {
				break
			}
			steps++
			require.LessOrEqual(t, steps, 10_000, "inertia did not stop")
		}

		assert.Positive(t, steps)
		assert.LessOrEqual(t, steps, MaxInertiaSteps(v0, DefaultInertia()))
		assert.Less(t, math.Abs(m.State().VelocityDegPerTick), DefaultStopEpsilon)
	}
}

func TestRotationModel_SlowReleaseDoesNotSpin(t *testing.T) {
	m := NewRotationModel(DefaultInertia())
	m.BeginDrag()
	m.DragTo(0.05)
	assert.False(t, m.EndDrag())
	_, running := m.Step()
	assert.False(t, running)
}

func TestRotationModel_DragCancelsInertia(t *testing.T) {
	m := NewRotationModel(DefaultInertia())
	m.BeginDrag()
	m.DragTo(30)
	require.True(t, m.EndDrag())
	spin := m.Epoch()

	m.Step()
	m.BeginDrag()

	assert.NotEqual(t, spin, m.Epoch())
	assert.Zero(t, m.State().VelocityDegPerTick)
	_, running := m.Step()
	assert.False(t, running)
}

func TestMaxInertiaSteps(t *testing.T) {
	assert.Equal(t, 0, MaxInertiaSteps(0.05, DefaultInertia()))
	assert.Equal(t, 105, MaxInertiaSteps(20, DefaultInertia()))
	assert.Equal(t, 0, MaxInertiaSteps(20, InertiaConfig{Decay: 1, StopEpsilon: 0.1}))
}

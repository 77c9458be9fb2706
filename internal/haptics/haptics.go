// Package haptics delivers short tactile or audible pulses when the wheel
// crosses a detent. Platforms without a vibration primitive fall back to the
// terminal bell or to nothing at all.
package haptics

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Intensity is the requested pulse strength.
type Intensity int

const (
	// Light is used for velocity feedback while the wheel spins.
	Light Intensity = iota + 1
	// Tick is used when a detent is crossed.
	Tick
	// Heavy is used for confirmations.
	Heavy
)

func (i Intensity) String() string {
	switch i {
	case Light:
		return "light"
	case Tick:
		return "tick"
	case Heavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// Pulser emits a single feedback pulse. Implementations must not block and
// must swallow their own failures.
type Pulser interface {
	Pulse(Intensity)
}

// Mode selects which Pulser New returns.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeBell Mode = "bell"
	ModeOff  Mode = "off"
)

// Noop discards every pulse.
type Noop struct{}

// Pulse implements Pulser.
func (Noop) Pulse(Intensity) {}

// DefaultBellInterval limits how often the bell may ring.
const DefaultBellInterval = 40 * time.Millisecond

// Bell rings the terminal bell for tick and heavy pulses. Light pulses are
// dropped because a bell per frame is noise, not feedback.
type Bell struct {
	last     time.Time
	w        io.Writer
	now      func() time.Time
	interval time.Duration
	mu       sync.Mutex
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w, now: time.Now, interval: DefaultBellInterval}
}

// Pulse implements Pulser.
func (b *Bell) Pulse(i Intensity) {
	if i < Tick {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.interval {
		return
	}
	b.last = now
	_, _ = b.w.Write([]byte{'\a'})
}

// New returns the Pulser for mode. In auto mode the bell is used only when
// out is a terminal.
func New(mode Mode, out *os.File) Pulser {
	switch mode {
	case ModeOff:
		return Noop{}
	case ModeBell:
		return NewBell(out)
	default:
		if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
			return NewBell(out)
		}
		return Noop{}
	}
}

// Recorder collects pulses. It is safe for concurrent use.
type Recorder struct {
	pulses []Intensity
	mu     sync.Mutex
}

// Pulse implements Pulser.
func (r *Recorder) Pulse(i Intensity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, i)
}

// Pulses returns a copy of the recorded pulses.
func (r *Recorder) Pulses() []Intensity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Intensity, len(r.pulses))
	copy(out, r.pulses)
	return out
}

// Count returns how many pulses of intensity i were recorded.
func (r *Recorder) Count(i Intensity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.pulses {
		if p == i {
			n++
		}
	}
	return n
}

// Reset drops all recorded pulses.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = nil
}

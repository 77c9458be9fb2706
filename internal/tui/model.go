// Package tui hosts the capture flow in a terminal. Mouse drags on the dial
// drive the gesture engine, keys map onto the same capture events, and
// storage work runs as bubbletea commands whose results are fed back to the
// controller.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/haptics"
	"github.com/wapinheiro/money/internal/predict"
	"github.com/wapinheiro/money/internal/tui/viewmodel"
)

// Model is the main TUI model.
type Model struct {
	predictor Predictor
	ctrl      *capture.Controller
	wheel     *gesture.Wheel
	create    *creationForm
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	config    Config
	pointer   gesture.PointerSample
	lastMode  capture.Mode
	width     int
	height    int
	saved     int
	quitting  bool
}

// New returns a capture screen in amount entry.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(cfg)
}

func newModel(cfg Config) Model {
	if cfg.Capture.Now == nil {
		cfg.Capture.Now = time.Now
	}
	predictor := cfg.Predictor
	if predictor == nil && cfg.Storage != nil {
		predictor = predict.New(cfg.Storage)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cfg.Theme.StatusPending

	h := help.New()
	h.Width = cfg.Width

	m := Model{
		config:    cfg,
		predictor: predictor,
		ctrl:      capture.New(cfg.Capture),
		wheel:     gesture.NewWheel(cfg.Wheel, cfg.Pulser),
		keys:      DefaultKeyMap(),
		help:      h,
		spinner:   s,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.lastMode = m.ctrl.Mode()
	m.wheel.SetThreshold(m.ctrl.TickThreshold())
	return m
}

// Init starts the spinner and announces the first frame.
func (m Model) Init() tea.Cmd {
	m.publish()
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		return m.handleFrame(msg)

	case eventMsg:
		return m.dispatch(msg.event)

	case committedMsg:
		m.saved++
		slog.Info("transaction captured",
			"id", msg.record.Record.ID,
			"amount", msg.record.Record.Amount.String(),
			"merchant", msg.record.Record.Merchant)
		if m.config.CloseOnSave {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and other input internals.
	if m.create != nil {
		return m, m.create.forward(msg)
	}
	return m, nil
}

// Saved returns the number of transactions captured in this session.
func (m Model) Saved() int {
	return m.saved
}

// Snapshot exposes the controller state.
func (m Model) Snapshot() capture.Snapshot {
	return m.ctrl.Snapshot()
}

// Frame returns the current presentation frame.
func (m Model) Frame() viewmodel.Frame {
	return viewmodel.FromSnapshot(m.ctrl.Snapshot(), m.wheel.State().AngleDeg)
}

// dispatch feeds events to the controller, runs the resulting commands and
// brings the wheel and the frame in line with the new state.
func (m Model) dispatch(events ...capture.Event) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(events)+1)
	for _, ev := range events {
		cmds = append(cmds, m.execute(m.ctrl.Handle(ev)))
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// sync reacts to mode changes and publishes the frame.
func (m *Model) sync() tea.Cmd {
	var cmd tea.Cmd
	mode := m.ctrl.Mode()
	if mode != m.lastMode {
		// A new wheel starts at rest; a spin from the old one is abandoned.
		m.wheel.Stop()
		switch {
		case mode == capture.ModeValueCreation:
			m.create = newCreationForm(m.ctrl.Snapshot().Editing, m.config.Capture.Now())
			cmd = m.create.focusInput(inputName)
		case m.lastMode == capture.ModeValueCreation:
			m.create = nil
		}
		slog.Debug("capture mode changed", "from", m.lastMode.String(), "to", mode.String())
		m.lastMode = mode
	}
	m.wheel.SetThreshold(m.ctrl.TickThreshold())
	m.wheel.SetVelocityFeedback(mode != capture.ModeFieldReview)
	m.publish()
	return cmd
}

func (m Model) publish() {
	if m.config.Publisher == nil {
		return
	}
	if err := m.config.Publisher.Publish(m.Frame()); err != nil {
		slog.Debug("frame publish failed", "error", err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.create != nil && m.ctrl.Mode() == capture.ModeValueCreation {
		return m.handleCreationKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Digit):
		return m.dispatch(capture.Digit{Digit: int(msg.String()[0] - '0')})
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(capture.DeleteDigit{})
	case key.Matches(msg, m.keys.Confirm):
		return m.dispatch(capture.Confirm{})
	case key.Matches(msg, m.keys.Back):
		return m.dispatch(capture.Back{})
	case key.Matches(msg, m.keys.Press):
		return m.dispatch(capture.PressFocused{})
	case key.Matches(msg, m.keys.Left):
		return m.keyTick(-1)
	case key.Matches(msg, m.keys.Right):
		return m.keyTick(1)
	}
	return m, nil
}

// keyTick moves the wheel one detent from the keyboard. It takes over from
// any running spin.
func (m Model) keyTick(direction int) (tea.Model, tea.Cmd) {
	m.wheel.Stop()
	m.config.Pulser.Pulse(haptics.Tick)
	return m.dispatch(capture.Tick{Direction: direction})
}

func (m Model) handleCreationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		draft, err := m.create.draft()
		if err != nil {
			m.create.err = common.UserMessage(err, "Invalid input")
			return m, nil
		}
		return m.dispatch(capture.SubmitCreation{Draft: draft})
	case key.Matches(msg, m.keys.Back):
		return m.dispatch(capture.CancelCreation{})
	case key.Matches(msg, m.keys.NextInput):
		return m, m.create.cycle(1)
	case key.Matches(msg, m.keys.PrevInput):
		return m, m.create.cycle(-1)
	case key.Matches(msg, m.keys.ToggleTagType):
		return m, m.create.toggleTemporary()
	}
	return m, m.create.update(msg)
}

// sample converts a terminal cell into dial coordinates. Rows are scaled
// by cellAspect so the dial is round on screen.
func (m *Model) sample(msg tea.MouseMsg) gesture.PointerSample {
	m.pointer.Seq++
	m.pointer.X = float64(msg.X) + 0.5
	m.pointer.Y = (float64(msg.Y) + 0.5) * cellAspect
	m.pointer.Source = gesture.SourceMouse
	return m.pointer
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.create != nil {
		return m, nil
	}
	rect := m.dialRect()

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		return m.keyTick(-1)

	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		return m.keyTick(1)

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		s := m.sample(msg)
		if gesture.Distance(rect, s.X, s.Y) > rect.Radius() {
			return m, nil
		}
		m.wheel.Press(rect, s)
		m.publish()
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		if !m.wheel.Pressed() {
			return m, nil
		}
		ticks := m.wheel.Move(m.sample(msg))
		return m.dispatch(tickEvents(ticks)...)

	case msg.Action == tea.MouseActionRelease:
		if !m.wheel.Pressed() {
			return m, nil
		}
		s := m.sample(msg)
		release, ok := m.wheel.Release()
		if !ok {
			return m, nil
		}
		if release.Kind == gesture.ReleaseTap {
			if ev, ok := m.tapEvent(rect, s); ok {
				return m.dispatch(ev)
			}
			return m.dispatch()
		}
		next, cmd := m.dispatch()
		if release.Inertia {
			cmd = tea.Batch(cmd, next.frameTick(release.Epoch))
		}
		return next, cmd
	}
	return m, nil
}

// tapEvent resolves a tap: the hub confirms, a wedge is selected directly.
func (m Model) tapEvent(rect gesture.Rect, s gesture.PointerSample) (capture.Event, bool) {
	if gesture.Distance(rect, s.X, s.Y) <= rect.Radius()*hubRatio {
		return capture.Confirm{}, true
	}
	items := m.ctrl.Snapshot().Items
	idx := gesture.WedgeAt(gesture.Angle(rect, s.X, s.Y), m.wheel.State().AngleDeg, len(items))
	if idx < 0 {
		return nil, false
	}
	return capture.Tap{Index: idx}, true
}

// handleFrame advances a spin and schedules the next frame while it runs.
func (m Model) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	ticks, running := m.wheel.Frame(msg.epoch)
	if !running {
		return m, nil
	}
	next, cmd := m.dispatch(tickEvents(ticks)...)
	return next, tea.Batch(cmd, next.frameTick(msg.epoch))
}

func tickEvents(ticks []int) []capture.Event {
	events := make([]capture.Event, len(ticks))
	for i, dir := range ticks {
		events[i] = capture.Tick{Direction: dir}
	}
	return events
}

package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/tui/viewmodel"
)

// Dial geometry in terminal cells. A cell is about twice as tall as it is
// wide, so rows are scaled by cellAspect in dial coordinates.
const (
	dialCols   = 33
	dialRows   = 17
	dialTop    = 3 // Title, amount and a blank line
	cellAspect = 2.0
	hubRatio   = 0.35
	ringRatio  = 0.82
	labelRatio = 0.6
)

// dialRect is the on-screen bounding box of the dial in dial coordinates.
func (m Model) dialRect() gesture.Rect {
	return gesture.Rect{
		X:      float64(m.dialLeft()),
		Y:      dialTop * cellAspect,
		Width:  dialCols,
		Height: dialRows * cellAspect,
	}
}

func (m Model) dialLeft() int {
	return max(0, (m.width-dialCols)/2)
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	frame := m.Frame()
	if m.width > 0 && m.width < dialCols+2 {
		return m.renderCompact(frame)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(frame))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(frame))
	b.WriteString("\n\n")

	pad := strings.Repeat(" ", m.dialLeft())
	for _, row := range m.renderDial(frame) {
		b.WriteString(pad)
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderDetail(frame))

	if summary := m.renderSummary(frame); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
	}
	if m.create != nil {
		b.WriteString("\n")
		b.WriteString(m.renderCreation())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader(frame viewmodel.Frame) string {
	t := m.config.Theme
	title := t.Title.Render("💸 money")
	mode := t.Subtitle.Render(modeTitle(frame))
	if m.saved > 0 {
		mode += t.Subtitle.Render(fmt.Sprintf(" · %d saved", m.saved))
	}
	return title + "  " + mode
}

func modeTitle(frame viewmodel.Frame) string {
	switch frame.Mode {
	case capture.ModeNumericEntry.String():
		return "Enter amount"
	case capture.ModeFieldReview.String():
		return "Review details"
	case capture.ModeValueCreation.String():
		return "New " + strings.ToLower(frame.Editing.Title())
	default:
		return "Select " + strings.ToLower(frame.Editing.Title())
	}
}

func (m Model) renderStatus(frame viewmodel.Frame) string {
	t := m.config.Theme
	line := t.Amount.Render(frame.Amount)
	switch {
	case frame.Busy:
		line += "  " + m.spinner.View() + t.StatusPending.Render(frame.Status)
	case strings.HasPrefix(frame.Status, "Saved"):
		line += "  " + t.StatusSuccess.Render(frame.Status)
	case frame.Status != "":
		line += "  " + t.StatusInfo.Render(frame.Status)
	}
	return line
}

type dialCell struct {
	style *lipgloss.Style
	text  string
}

// renderDial draws the ring, the wedge labels and the hub.
func (m Model) renderDial(frame viewmodel.Frame) []string {
	t := m.config.Theme
	wedges := frame.Wedges()
	n := len(wedges)

	grid := make([][]dialCell, dialRows)
	for r := range grid {
		grid[r] = make([]dialCell, dialCols)
		for c := range grid[r] {
			grid[r][c] = dialCell{text: " "}
		}
	}

	local := gesture.Rect{Width: dialCols, Height: dialRows * cellAspect}
	radius := local.Radius()
	for r := 0; r < dialRows; r++ {
		for c := 0; c < dialCols; c++ {
			x, y := float64(c)+0.5, (float64(r)+0.5)*cellAspect
			d := gesture.Distance(local, x, y)
			if d > radius || d < radius*ringRatio {
				continue
			}
			cell := dialCell{text: "░", style: &t.Ring}
			if n > 0 {
				w := wedges[gesture.WedgeAt(gesture.Angle(local, x, y), frame.RotationAngleDeg, n)]
				switch {
				case w.Focused:
					cell = dialCell{text: "█", style: &t.RingFocused}
				case w.Selected:
					cell = dialCell{text: "▓", style: &t.Label}
				}
			}
			grid[r][c] = cell
		}
	}

	// Focused label first so it wins any overlap.
	order := make([]viewmodel.Wedge, n)
	copy(order, wedges)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Focused && !order[j].Focused })

	limit := 6
	if n > 12 {
		limit = 4
	}
	taken := make([][]bool, dialRows)
	for r := range taken {
		taken[r] = make([]bool, dialCols)
	}
	cx, cy := local.Center()
	for _, w := range order {
		rad := w.CenterDeg * math.Pi / 180
		col := int(cx + radius*labelRatio*math.Cos(rad))
		row := int((cy + radius*labelRatio*math.Sin(rad)) / cellAspect)
		style := &t.Label
		if w.Focused {
			style = &t.LabelFocused
		}
		placeText(grid, taken, row, col, runewidth.Truncate(wedgeLabel(w.Item), limit, "…"), style, false)
	}

	hub := runewidth.Truncate(frame.CenterLabel(), int(radius*hubRatio*2)+2, "…")
	placeText(grid, taken, int(cy/cellAspect), int(cx), hub, &t.Hub, true)

	rows := make([]string, dialRows)
	for r, cells := range grid {
		var b strings.Builder
		for _, cell := range cells {
			if cell.style == nil {
				b.WriteString(cell.text)
				continue
			}
			b.WriteString(cell.style.Render(cell.text))
		}
		rows[r] = b.String()
	}
	return rows
}

// placeText writes text centred on (row, col). Unless force is set, text
// that would overlap earlier text or leave the grid is skipped. Wide runes
// take two cells.
func placeText(grid [][]dialCell, taken [][]bool, row, col int, text string, style *lipgloss.Style, force bool) {
	width := runewidth.StringWidth(text)
	start := col - width/2
	if row < 0 || row >= len(grid) || start < 0 || start+width > len(grid[row]) || width == 0 {
		return
	}
	if !force {
		for c := start - 1; c <= start+width; c++ {
			if c >= 0 && c < len(taken[row]) && taken[row][c] {
				return
			}
		}
	}

	c := start
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		grid[row][c] = dialCell{text: string(r), style: style}
		taken[row][c] = true
		for k := 1; k < w; k++ {
			grid[row][c+k] = dialCell{}
			taken[row][c+k] = true
		}
		c += w
	}
}

func wedgeLabel(item model.SelectableItem) string {
	if item.IsCreateNew() {
		return "+ New"
	}
	return item.Label
}

// renderDetail describes the focused wedge.
func (m Model) renderDetail(frame viewmodel.Frame) string {
	t := m.config.Theme
	item, ok := frame.Focused()
	if !ok {
		if frame.Busy {
			return t.StatusPending.Render("Loading…")
		}
		return t.Subtitle.Render("Nothing to select")
	}

	var b strings.Builder
	if item.Icon != "" {
		b.WriteString(item.Icon + " ")
	}
	b.WriteString(t.Bold.Render(item.Label))
	if item.SubLabel != "" {
		b.WriteString(" " + t.Detail.Render(item.SubLabel))
	}
	for _, tag := range frame.Tags {
		if frame.Editing.IsMultiSelect() && tag.Key() == item.Key() {
			b.WriteString(" " + t.StatusSuccess.Render("✓"))
			break
		}
	}
	return b.String()
}

// renderSummary lists the captured fields once review has started.
func (m Model) renderSummary(frame viewmodel.Frame) string {
	if frame.Mode == capture.ModeNumericEntry.String() || (len(frame.Fields) == 0 && len(frame.Tags) == 0) {
		return ""
	}
	t := m.config.Theme
	parts := make([]string, 0, 4)
	for _, field := range []model.FieldKey{model.FieldMerchant, model.FieldCategory, model.FieldAccount} {
		value := "—"
		if item, ok := frame.Fields[field]; ok {
			value = item.Label
		}
		parts = append(parts, t.Subtitle.Render(field.Title()+": ")+t.Normal.Render(value))
	}
	if len(frame.Tags) > 0 {
		names := make([]string, len(frame.Tags))
		for i, tag := range frame.Tags {
			names[i] = "#" + tag.Label
		}
		parts = append(parts, t.Normal.Render(strings.Join(names, " ")))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderCreation() string {
	t := m.config.Theme
	f := m.create

	lines := make([]string, 0, 5)
	for i := 0; i < f.visible(); i++ {
		lines = append(lines, f.inputs[i].View())
	}
	if f.field.IsMultiSelect() {
		kind := "Permanent tag"
		if f.temporary {
			kind = "Temporary tag"
		}
		lines = append(lines, t.Subtitle.Render(kind))
	}
	if f.err != "" {
		lines = append(lines, t.StatusError.Render(f.err))
	}
	return t.InputBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	if m.create != nil {
		return m.help.View(creationKeys{KeyMap: m.keys, tags: m.create.field.IsMultiSelect()})
	}
	return m.help.View(m.keys)
}

// renderCompact lists the wedges when the terminal is too narrow for the
// dial.
func (m Model) renderCompact(frame viewmodel.Frame) string {
	t := m.config.Theme
	var b strings.Builder
	b.WriteString(m.renderStatus(frame))
	b.WriteString("\n")
	for _, w := range frame.Wedges() {
		label := wedgeLabel(w.Item)
		if w.Focused {
			b.WriteString(t.LabelFocused.Render("> " + label))
		} else {
			b.WriteString(t.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}
	if m.create != nil {
		b.WriteString(m.renderCreation())
	}
	return b.String()
}

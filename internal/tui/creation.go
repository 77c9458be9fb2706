package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/model"
)

// DateLayout is the format of tag start and end dates.
const DateLayout = "2006-01-02"

const (
	inputName = iota
	inputStart
	inputEnd
)

var errBadDate = common.NewUserError("Dates use YYYY-MM-DD", common.ErrInvalidInput)

// creationForm collects a new option: a name and, for temporary tags, a
// date range.
type creationForm struct {
	field     model.FieldKey
	err       string
	inputs    []textinput.Model
	focus     int
	temporary bool
}

func newCreationForm(field model.FieldKey, now time.Time) *creationForm {
	name := textinput.New()
	name.Prompt = "Name: "
	name.Placeholder = "New " + strings.ToLower(field.Title())
	name.CharLimit = 64
	name.Width = 32

	start := textinput.New()
	start.Prompt = "From: "
	start.Placeholder = DateLayout
	start.CharLimit = len(DateLayout)
	start.SetValue(now.Format(DateLayout))

	end := textinput.New()
	end.Prompt = "To:   "
	end.Placeholder = DateLayout
	end.CharLimit = len(DateLayout)
	end.SetValue(now.AddDate(0, 0, 7).Format(DateLayout))

	return &creationForm{
		field:  field,
		inputs: []textinput.Model{name, start, end},
	}
}

// visible returns how many inputs are in use.
func (f *creationForm) visible() int {
	if f.field.IsMultiSelect() && f.temporary {
		return len(f.inputs)
	}
	return 1
}

// focusInput moves keyboard focus to input i.
func (f *creationForm) focusInput(i int) tea.Cmd {
	n := f.visible()
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *creationForm) cycle(delta int) tea.Cmd {
	return f.focusInput(f.focus + delta)
}

// toggleTemporary switches a tag draft between permanent and temporary.
func (f *creationForm) toggleTemporary() tea.Cmd {
	if !f.field.IsMultiSelect() {
		return nil
	}
	f.temporary = !f.temporary
	f.err = ""
	return f.focusInput(f.focus)
}

// update applies a key to the focused input.
func (f *creationForm) update(msg tea.Msg) tea.Cmd {
	f.err = ""
	return f.forward(msg)
}

func (f *creationForm) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// draft converts the inputs. Dates are parsed in local time; range checks
// are left to the controller.
func (f *creationForm) draft() (model.OptionDraft, error) {
	d := model.OptionDraft{Name: f.inputs[inputName].Value()}
	if !f.field.IsMultiSelect() {
		return d, nil
	}
	if !f.temporary {
		d.TagType = model.TagTypePermanent
		return d, nil
	}

	d.TagType = model.TagTypeTemporary
	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(f.inputs[inputStart].Value()), time.Local)
	if err != nil {
		return d, errBadDate
	}
	end, err := time.ParseInLocation(DateLayout, strings.TrimSpace(f.inputs[inputEnd].Value()), time.Local)
	if err != nil {
		return d, errBadDate
	}
	d.StartDate, d.EndDate = &start, &end
	return d, nil
}

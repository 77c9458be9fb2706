package capture

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/gesture"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/selection"
)

// Config tunes a Controller.
type Config struct {
	Now                    func() time.Time
	SelectionThresholdDeg  float64
	NavigationThresholdDeg float64
}

// DefaultConfig returns the standard detent spacing and the wall clock.
func DefaultConfig() Config {
	return Config{
		Now:                    time.Now,
		SelectionThresholdDeg:  gesture.SelectionThresholdDeg,
		NavigationThresholdDeg: gesture.NavigationThresholdDeg,
	}
}

// Controller drives one capture screen. It must be used from a single
// goroutine; async work is requested through returned commands and its
// results are fed back through Handle.
type Controller struct {
	keypad     *selection.Cursor[model.SelectableItem]
	review     *selection.Cursor[model.FieldKey]
	options    *selection.Cursor[model.SelectableItem]
	cfg        Config
	session    Session
	status     string
	editing    model.FieldKey
	generation uint64
	mode       Mode
	predicting bool
	loading    bool
	creating   bool
	saving     bool
}

// New returns a controller in numeric entry with an empty session.
func New(cfg Config) *Controller {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		cfg:     cfg,
		session: NewSession(),
		keypad:  selection.New(Keypad),
		review:  selection.New(model.ReviewFields),
		options: selection.New[model.SelectableItem](nil),
		mode:    ModeNumericEntry,
	}
}

// Mode returns the active step.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Generation returns the counter used to match async results to requests.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Status returns the latest user-facing message.
func (c *Controller) Status() string {
	return c.status
}

// Busy reports whether an async request is outstanding.
func (c *Controller) Busy() bool {
	return c.predicting || c.loading || c.creating || c.saving
}

// TickThreshold returns the detent spacing the wheel should use in the
// current step.
func (c *Controller) TickThreshold() float64 {
	if c.mode == ModeFieldReview {
		return c.cfg.NavigationThresholdDeg
	}
	return c.cfg.SelectionThresholdDeg
}

// Handle applies ev and returns the commands the host must run.
func (c *Controller) Handle(ev Event) []Command {
	switch e := ev.(type) {
	case PredictionLoaded:
		return c.applyPrediction(e)
	case OptionsLoaded:
		return c.applyOptions(e)
	case OptionCreated:
		return c.applyCreated(e)
	case SaveCompleted:
		return c.applySave(e)
	}

	if c.saving {
		return nil
	}

	switch c.mode {
	case ModeNumericEntry:
		return c.handleNumericEntry(ev)
	case ModeFieldReview:
		return c.handleFieldReview(ev)
	case ModeFieldEdit:
		return c.handleFieldEdit(ev)
	case ModeValueCreation:
		return c.handleValueCreation(ev)
	default:
		return nil
	}
}

// transition switches mode and invalidates every outstanding request.
func (c *Controller) transition(mode Mode) {
	c.mode = mode
	c.generation++
	c.predicting = false
	c.loading = false
	c.creating = false
}

func (c *Controller) handleNumericEntry(ev Event) []Command {
	switch e := ev.(type) {
	case Digit:
		c.appendDigit(e.Digit)
	case DeleteDigit:
		c.session.Amount = c.session.Amount.DeleteDigit()
	case Tick:
		c.keypad.Advance(e.Direction)
	case Tap:
		if c.keypad.SetIndex(e.Index) {
			c.pressKey()
		}
	case PressFocused:
		c.pressKey()
	case Confirm:
		return c.confirmAmount()
	case Back:
		return []Command{Close{}}
	}
	return nil
}

func (c *Controller) appendDigit(d int) {
	next, ok := c.session.Amount.AppendDigit(d)
	if !ok {
		if d >= 0 && d <= 9 {
			c.status = "Amount is too large"
		}
		return
	}
	c.session.Amount = next
}

func (c *Controller) pressKey() {
	key, ok := c.keypad.Focused()
	if !ok {
		return
	}
	if key.Value == DeleteKeyValue {
		c.session.Amount = c.session.Amount.DeleteDigit()
		return
	}
	c.appendDigit(int(key.Value[0] - '0'))
}

func (c *Controller) confirmAmount() []Command {
	if c.session.Amount.IsZero() {
		c.status = "Enter an amount first"
		return nil
	}

	needsPrediction := len(c.session.Fields) == 0
	c.transition(ModeFieldReview)
	c.status = "Review Details"
	if !needsPrediction {
		return nil
	}
	c.review.SetIndex(len(model.ReviewFields) - 1)
	c.predicting = true
	return []Command{FetchPrediction{Generation: c.generation}}
}

func (c *Controller) handleFieldReview(ev Event) []Command {
	switch e := ev.(type) {
	case Tick:
		c.review.Advance(e.Direction)
	case Tap:
		if c.review.SetIndex(e.Index) {
			return c.confirmField()
		}
	case Confirm, PressFocused:
		return c.confirmField()
	case Back:
		c.transition(ModeNumericEntry)
		c.status = "Edit amount"
	}
	return nil
}

func (c *Controller) confirmField() []Command {
	field, ok := c.review.Focused()
	if !ok {
		return nil
	}

	switch {
	case field == model.FieldSave:
		if c.session.Amount.IsZero() {
			c.status = "Enter an amount first"
			return nil
		}
		c.saving = true
		c.status = "Saving…"
		return []Command{SaveTransaction{
			Generation: c.generation,
			Record:     c.session.Record(c.cfg.Now()),
		}}

	case field == model.FieldAmount:
		c.transition(ModeNumericEntry)
		c.status = "Edit amount"
		return nil

	case field.HasOptions():
		c.transition(ModeFieldEdit)
		c.editing = field
		c.options.Replace(nil)
		c.loading = true
		c.status = "Select " + strings.ToLower(field.Title())
		return []Command{FetchOptions{Generation: c.generation, Field: field}}
	}
	return nil
}

func (c *Controller) handleFieldEdit(ev Event) []Command {
	switch e := ev.(type) {
	case Tick:
		c.options.Advance(e.Direction)
	case Tap:
		if c.options.SetIndex(e.Index) {
			return c.confirmOption()
		}
	case Confirm, PressFocused:
		return c.confirmOption()
	case Back:
		c.transition(ModeFieldReview)
		c.status = "Review Details"
	}
	return nil
}

func (c *Controller) confirmOption() []Command {
	if c.loading {
		return nil
	}
	item, ok := c.options.Focused()
	if !ok {
		return nil
	}

	if item.IsCreateNew() {
		c.transition(ModeValueCreation)
		c.status = "New " + strings.ToLower(c.editing.Title())
		return nil
	}

	if c.editing.IsMultiSelect() {
		if c.session.ToggleTag(item) {
			c.status = "Tag Added"
		} else {
			c.status = "Tag Removed"
		}
		return nil
	}

	c.session.Fields[c.editing] = item
	c.transition(ModeFieldReview)
	c.status = fmt.Sprintf("Updated %s", c.editing.Title())
	return nil
}

func (c *Controller) handleValueCreation(ev Event) []Command {
	switch e := ev.(type) {
	case SubmitCreation:
		if c.creating {
			return nil
		}
		draft, err := normalizeDraft(c.editing, e.Draft)
		if err != nil {
			c.status = common.UserMessage(err, "Invalid input")
			return nil
		}
		c.creating = true
		c.status = "Creating…"
		return []Command{CreateOption{Generation: c.generation, Field: c.editing, Draft: draft}}
	case CancelCreation, Back:
		c.transition(ModeFieldEdit)
		c.status = "Select " + strings.ToLower(c.editing.Title())
	}
	return nil
}

func normalizeDraft(field model.FieldKey, d model.OptionDraft) (model.OptionDraft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, common.NewUserError("Name is required", common.ErrInvalidInput)
	}
	if !field.IsMultiSelect() {
		d.TagType = ""
		d.StartDate, d.EndDate = nil, nil
		return d, nil
	}
	if d.TagType == "" {
		d.TagType = model.TagTypePermanent
	}
	if d.TagType == model.TagTypePermanent {
		d.StartDate, d.EndDate = nil, nil
		return d, nil
	}
	if d.StartDate == nil || d.EndDate == nil {
		return d, common.NewUserError("Temporary tags need start and end dates", common.ErrInvalidInput)
	}
	if d.EndDate.Before(*d.StartDate) {
		return d, common.NewUserError("End date is before start date", common.ErrInvalidInput)
	}
	return d, nil
}

func (c *Controller) stale(kind string, generation uint64) bool {
	if generation == c.generation {
		return false
	}
	slog.Debug("discarding stale result",
		"kind", kind,
		"generation", generation,
		"current", c.generation,
		"mode", c.mode.String())
	return true
}

func (c *Controller) applyPrediction(e PredictionLoaded) []Command {
	if c.stale("prediction", e.Generation) || !c.predicting {
		return nil
	}
	c.predicting = false
	if e.Err != nil {
		slog.Warn("prediction failed", "error", e.Err)
		c.status = common.UserMessage(e.Err, "Couldn't predict details")
		return nil
	}
	for field, item := range e.Prediction.Fields() {
		if _, set := c.session.Fields[field]; !set {
			c.session.Fields[field] = item
		}
	}
	return nil
}

func (c *Controller) applyOptions(e OptionsLoaded) []Command {
	if c.stale("options", e.Generation) || !c.loading || e.Field != c.editing {
		return nil
	}
	c.loading = false
	if e.Err != nil {
		slog.Warn("loading options failed", "field", e.Field, "error", e.Err)
		c.transition(ModeFieldReview)
		c.status = common.UserMessage(e.Err, fmt.Sprintf("Couldn't load %s options", strings.ToLower(e.Field.Title())))
		return nil
	}

	items := e.Items
	if e.Field.IsMultiSelect() {
		active := model.ActiveTags(e.Tags, c.cfg.Now())
		items = make([]model.SelectableItem, 0, len(active))
		for _, t := range active {
			items = append(items, t.Item())
		}
	}

	c.options.Replace(buildOptions(items))
	c.options.SetIndex(c.initialOptionIndex())
	return nil
}

// buildOptions prepends the create option and drops repeated names.
func buildOptions(items []model.SelectableItem) []model.SelectableItem {
	out := make([]model.SelectableItem, 0, len(items)+1)
	out = append(out, model.CreateNewItem())
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Label))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, item)
	}
	return out
}

// initialOptionIndex focuses the current value when it is listed, else the
// first real option, so a blind confirm never lands on "create new".
func (c *Controller) initialOptionIndex() int {
	items := c.options.Items()
	if current, ok := c.session.Fields[c.editing]; ok {
		for i, item := range items {
			if !item.IsCreateNew() && item.Key() == current.Key() {
				return i
			}
		}
	}
	if len(items) > 1 {
		return 1
	}
	return 0
}

func (c *Controller) applyCreated(e OptionCreated) []Command {
	if c.stale("create", e.Generation) || !c.creating || e.Field != c.editing {
		return nil
	}
	c.creating = false
	if e.Err != nil {
		slog.Warn("creating option failed", "field", e.Field, "error", e.Err)
		c.status = common.UserMessage(e.Err, "Error creating item")
		return nil
	}

	if e.Field.IsMultiSelect() {
		c.focusOrAppend(e.Item)
		if !c.session.HasTag(e.Item) {
			c.session.ToggleTag(e.Item)
		}
		c.transition(ModeFieldEdit)
		c.status = "Tag Added"
		return nil
	}

	c.session.Fields[e.Field] = e.Item
	c.transition(ModeFieldReview)
	c.status = fmt.Sprintf("Created %s", e.Item.Label)
	return nil
}

// focusOrAppend focuses item on the options wheel, adding it only when no
// wedge with the same key or name is listed yet.
func (c *Controller) focusOrAppend(item model.SelectableItem) {
	name := strings.ToLower(strings.TrimSpace(item.Label))
	for i, existing := range c.options.Items() {
		if existing.IsCreateNew() {
			continue
		}
		if existing.Key() == item.Key() || strings.ToLower(strings.TrimSpace(existing.Label)) == name {
			c.options.SetIndex(i)
			return
		}
	}
	c.options.Append(item)
	c.options.SetIndex(c.options.Len() - 1)
}

func (c *Controller) applySave(e SaveCompleted) []Command {
	if !c.saving || c.stale("save", e.Generation) {
		return nil
	}
	c.saving = false
	if e.Err != nil {
		slog.Error("saving transaction failed", "error", e.Err)
		c.status = common.UserMessage(e.Err, "Save failed, try again")
		return nil
	}

	record := e.Record
	c.session = NewSession()
	c.keypad.Replace(Keypad)
	c.review.Replace(model.ReviewFields)
	c.options.Replace(nil)
	c.editing = ""
	c.transition(ModeNumericEntry)
	c.status = fmt.Sprintf("Saved %s!", record.Amount.Display())
	return []Command{Committed{Record: record}}
}

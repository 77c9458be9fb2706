package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/haptics"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/service"
	"github.com/wapinheiro/money/internal/storage"
	tuitest "github.com/wapinheiro/money/internal/tui/testing"
	"github.com/wapinheiro/money/internal/tui/viewmodel"
)

const collectWait = 150 * time.Millisecond

type fakePredictor struct {
	err        error
	prediction model.Prediction
	calls      int
}

func (f *fakePredictor) Predict(context.Context) (model.Prediction, error) {
	f.calls++
	return f.prediction, f.err
}

type recordingPublisher struct {
	frames []viewmodel.Frame
}

func (p *recordingPublisher) Publish(v any) error {
	frame, ok := v.(viewmodel.Frame)
	if !ok {
		return errors.New("unexpected frame type")
	}
	p.frames = append(p.frames, frame)
	return nil
}

func (p *recordingPublisher) last() viewmodel.Frame {
	return p.frames[len(p.frames)-1]
}

func createTestStorage(t *testing.T) service.Storage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "money.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// settle feeds storage results back into the model until none are left
// and returns every other message produced on the way.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var other []tea.Msg
	for i := 0; i < 10 && cmd != nil; i++ {
		var next []tea.Cmd
		for _, msg := range tuitest.Collect(cmd, collectWait) {
			switch msg.(type) {
			case eventMsg, committedMsg:
				updated, c := m.Update(msg)
				m = updated.(Model)
				next = append(next, c)
			default:
				other = append(other, msg)
			}
		}
		cmd = tea.Batch(next...)
	}
	return m, other
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	var other []tea.Msg
	for _, msg := range msgs {
		updated, cmd := m.Update(msg)
		var produced []tea.Msg
		m, produced = settle(t, updated.(Model), cmd)
		other = append(other, produced...)
	}
	return m, other
}

func typeAmount(t *testing.T, m Model, digits string) Model {
	t.Helper()
	m, _ = send(t, m, tuitest.NewInputSequence().Type(digits).Messages()...)
	return m
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func TestModel_KeyboardAmountEntry(t *testing.T) {
	m := New(WithSize(80, 24))

	m = typeAmount(t, m, "1250")
	assert.Equal(t, model.Amount(1250), m.Snapshot().Amount)

	m, _ = send(t, m, tuitest.KeyBackspace())
	assert.Equal(t, model.Amount(125), m.Snapshot().Amount)
	assert.Contains(t, tuitest.StripANSI(m.View()), "$1.25")
}

func TestModel_ConfirmLoadsPrediction(t *testing.T) {
	predictor := &fakePredictor{prediction: model.Prediction{
		Merchant: model.SelectableItem{ID: 1, Label: "Starbucks", Value: "Starbucks"},
		Category: model.SelectableItem{ID: 2, Label: "Dining", Value: "Dining"},
		Account:  model.SelectableItem{ID: 3, Label: "Cash", Value: "Cash"},
	}}
	m := New(WithPredictor(predictor))

	m = typeAmount(t, m, "500")
	m, _ = send(t, m, tuitest.KeyEnter())

	snap := m.Snapshot()
	assert.Equal(t, capture.ModeFieldReview, snap.Mode)
	assert.Equal(t, 1, predictor.calls)
	assert.Equal(t, "Starbucks", snap.Fields[model.FieldMerchant].Label)
	assert.Equal(t, "Cash", snap.Fields[model.FieldAccount].Label)
	assert.Equal(t, m.ctrl.TickThreshold(), m.wheel.Threshold())
	assert.Contains(t, tuitest.StripANSI(m.View()), "Merchant: Starbucks")
}

func TestModel_WithoutStorageReportsFailure(t *testing.T) {
	m := New()
	m = typeAmount(t, m, "5")
	m, _ = send(t, m, tuitest.KeyEnter())

	assert.Equal(t, capture.ModeFieldReview, m.Snapshot().Mode)
	assert.Equal(t, "Couldn't predict details", m.Snapshot().Status)
}

func TestModel_CaptureAndSave(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	_, err := store.CreateCategory(ctx, "Dining")
	require.NoError(t, err)
	_, err = store.CreateMerchant(ctx, "Starbucks")
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, "MACU")
	require.NoError(t, err)

	m := New(WithStorage(store))
	m = typeAmount(t, m, "1250")
	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeFieldReview, m.Snapshot().Mode)
	assert.Equal(t, "Starbucks", m.Snapshot().Fields[model.FieldMerchant].Label)

	// Review opens on Save.
	m, other := send(t, m, tuitest.KeyEnter())
	assert.False(t, hasQuit(other))
	assert.Equal(t, 1, m.Saved())
	assert.Equal(t, capture.ModeNumericEntry, m.Snapshot().Mode)
	assert.True(t, m.Snapshot().Amount.IsZero())

	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.Amount(1250), txns[0].Amount)
	assert.Equal(t, "Starbucks", txns[0].Merchant)
	assert.Equal(t, "MACU", txns[0].Account)
}

func TestModel_CloseOnSaveQuits(t *testing.T) {
	store := createTestStorage(t)
	m := New(WithStorage(store), WithCloseOnSave(true))

	m = typeAmount(t, m, "99")
	m, _ = send(t, m, tuitest.KeyEnter())
	m, other := send(t, m, tuitest.KeyEnter())

	assert.Equal(t, 1, m.Saved())
	assert.True(t, hasQuit(other))
	assert.Empty(t, m.View())
}

func TestModel_CreateMerchant(t *testing.T) {
	store := createTestStorage(t)
	m := New(WithStorage(store))

	m = typeAmount(t, m, "300")
	m, _ = send(t, m, tuitest.KeyEnter())

	// Save -> Tags -> Account -> Category -> Merchant
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, tuitest.KeyLeft())
	}
	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeFieldEdit, m.Snapshot().Mode)
	require.Equal(t, model.FieldMerchant, m.Snapshot().Editing)

	// Only "create new" is offered on an empty store.
	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeValueCreation, m.Snapshot().Mode)
	require.NotNil(t, m.create)

	m, _ = send(t, m, tuitest.NewInputSequence().Type("Cafe Rio").Messages()...)
	m, _ = send(t, m, tuitest.KeyEnter())

	snap := m.Snapshot()
	assert.Equal(t, capture.ModeFieldReview, snap.Mode)
	assert.Equal(t, "Cafe Rio", snap.Fields[model.FieldMerchant].Label)
	assert.Nil(t, m.create)

	merchants, err := store.ListMerchants(context.Background())
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, "Cafe Rio", merchants[0].Name)
}

func TestModel_CreationCancel(t *testing.T) {
	store := createTestStorage(t)
	m := New(WithStorage(store))

	m = typeAmount(t, m, "1")
	m, _ = send(t, m, tuitest.KeyEnter())
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, tuitest.KeyLeft())
	}
	m, _ = send(t, m, tuitest.KeyEnter(), tuitest.KeyEnter())
	require.Equal(t, capture.ModeValueCreation, m.Snapshot().Mode)

	m, _ = send(t, m, tuitest.KeyEsc())
	assert.Equal(t, capture.ModeFieldEdit, m.Snapshot().Mode)
	assert.Nil(t, m.create)
}

func TestModel_BackFromAmountQuits(t *testing.T) {
	m := New()
	_, other := send(t, m, tuitest.KeyEsc())
	assert.True(t, hasQuit(other))
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := New()
	updated, cmd := m.Update(tuitest.KeyCtrlC())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.View())
}

func TestModel_TapSelectsWedge(t *testing.T) {
	m := New(WithSize(80, 24))

	// Wedge 1 ("1") sits up and to the right of the hub.
	m, _ = send(t, m, tuitest.MouseClick(45, 6), tuitest.MouseRelease(45, 6))
	assert.Equal(t, model.Amount(1), m.Snapshot().Amount)
	assert.Equal(t, 1, m.Snapshot().FocusIndex)
}

func TestModel_TapHubConfirms(t *testing.T) {
	m := New(WithSize(80, 24), WithPredictor(&fakePredictor{}))
	m = typeAmount(t, m, "5")

	m, _ = send(t, m, tuitest.MouseClick(39, 11), tuitest.MouseRelease(39, 11))
	assert.Equal(t, capture.ModeFieldReview, m.Snapshot().Mode)
}

func TestModel_PressOutsideDialIgnored(t *testing.T) {
	m := New(WithSize(80, 24))
	m, _ = send(t, m, tuitest.MouseClick(0, 0))
	assert.False(t, m.wheel.Pressed())
}

func TestModel_DragTicksAndSpins(t *testing.T) {
	rec := &haptics.Recorder{}
	m := New(WithSize(80, 24), WithPulser(rec))

	// Top of the ring to the right of the ring is a quarter turn.
	m, _ = send(t, m, tuitest.MouseClick(39, 4))
	require.True(t, m.wheel.Pressed())
	m, _ = send(t, m, tuitest.MouseDrag(55, 11))

	assert.Equal(t, 6, m.Snapshot().FocusIndex)
	assert.Equal(t, 6, rec.Count(haptics.Tick))
	assert.InDelta(t, 90, m.wheel.State().AngleDeg, 1e-9)

	updated, cmd := m.Update(tuitest.MouseRelease(55, 11))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.False(t, m.wheel.Pressed())

	var frame frameMsg
	for _, msg := range tuitest.Collect(cmd, collectWait) {
		if f, ok := msg.(frameMsg); ok {
			frame = f
		}
	}
	require.Equal(t, m.wheel.Epoch(), frame.epoch, "release schedules an inertia frame")

	updated, cmd = m.Update(frame)
	m = updated.(Model)
	assert.NotNil(t, cmd, "spin continues")
	assert.NotEqual(t, 6, m.Snapshot().FocusIndex)
	assert.Greater(t, m.wheel.State().AngleDeg, 90.0)
}

func TestModel_ModeChangeAbandonsSpin(t *testing.T) {
	m := New(WithSize(80, 24), WithPredictor(&fakePredictor{}))
	m = typeAmount(t, m, "5")

	m, _ = send(t, m, tuitest.MouseClick(39, 4), tuitest.MouseDrag(55, 11))
	updated, _ := m.Update(tuitest.MouseRelease(55, 11))
	m = updated.(Model)
	epoch := m.wheel.Epoch()

	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeFieldReview, m.Snapshot().Mode)
	angle := m.wheel.State().AngleDeg

	updated, cmd := m.Update(frameMsg{epoch: epoch})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.InDelta(t, angle, m.wheel.State().AngleDeg, 1e-9)
}

func TestModel_PublishesFrames(t *testing.T) {
	pub := &recordingPublisher{}
	m := New(WithPublisher(pub))
	_ = m.Init()
	require.Len(t, pub.frames, 1)

	m, _ = send(t, m, tuitest.KeyPress("5"), tuitest.KeyRight())
	frame := pub.last()
	assert.Equal(t, "numeric-entry", frame.Mode)
	assert.Equal(t, "$0.05", frame.Amount)
	assert.Equal(t, 1, frame.FocusIndex)
	assert.Len(t, frame.Items, len(capture.Keypad))
	assert.Equal(t, m.Frame().FocusIndex, frame.FocusIndex)
}

func TestModel_KeyboardTicksPulse(t *testing.T) {
	rec := &haptics.Recorder{}
	m := New(WithPulser(rec))
	m, _ = send(t, m, tuitest.KeyRight(), tuitest.KeyRight(), tuitest.KeyLeft())

	assert.Equal(t, 1, m.Snapshot().FocusIndex)
	assert.Equal(t, 3, rec.Count(haptics.Tick))

	m, _ = send(t, m, tuitest.KeySpace())
	assert.Equal(t, model.Amount(1), m.Snapshot().Amount)
}

func TestModel_CompactView(t *testing.T) {
	r := tuitest.NewTestRenderer()
	result := tuitest.NewInputSequence(tuitest.WindowSize(20, 10)).Type("12").Apply(New(), r)

	assert.Equal(t, 3, r.UpdateCount)
	assert.Len(t, r.Messages, 3)
	assert.Equal(t, model.Amount(12), result.(Model).Snapshot().Amount)

	view := r.StripANSI()
	assert.Contains(t, view, "$0.12")
	assert.Contains(t, view, "> 0")
	assert.Contains(t, view, "  ⌫")
	assert.GreaterOrEqual(t, len(r.Lines()), len(capture.Keypad)+1, "one line per wedge below the amount")
	assert.Equal(t, r.Output, r.Render(result))
}

func TestModel_HelpToggle(t *testing.T) {
	m := New(WithSize(100, 30))
	short := tuitest.StripANSI(m.View())
	assert.Contains(t, short, "confirm")
	assert.NotContains(t, short, "delete digit")

	m, _ = send(t, m, tuitest.KeyPress("?"))
	assert.Contains(t, tuitest.StripANSI(m.View()), "delete digit")
}

func TestCreationForm_TagDraft(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	form := newCreationForm(model.FieldTags, now)
	form.inputs[inputName].SetValue("Trip")

	draft, err := form.draft()
	require.NoError(t, err)
	assert.Equal(t, model.TagTypePermanent, draft.TagType)
	assert.Nil(t, draft.StartDate)
	assert.Equal(t, 1, form.visible())

	form.toggleTemporary()
	assert.Equal(t, 3, form.visible())

	draft, err = form.draft()
	require.NoError(t, err)
	assert.Equal(t, model.TagTypeTemporary, draft.TagType)
	require.NotNil(t, draft.StartDate)
	require.NotNil(t, draft.EndDate)
	assert.Equal(t, "2024-06-01", draft.StartDate.Format(DateLayout))
	assert.Equal(t, "2024-06-08", draft.EndDate.Format(DateLayout))

	form.inputs[inputEnd].SetValue("June 8")
	_, err = form.draft()
	assert.ErrorIs(t, err, errBadDate)
}

func TestCreationForm_NonTagIgnoresToggle(t *testing.T) {
	form := newCreationForm(model.FieldCategory, time.Now())
	assert.Nil(t, form.toggleTemporary())
	assert.Equal(t, 1, form.visible())

	form.cycle(1)
	assert.Equal(t, inputName, form.focus)
}

func TestModel_TagCreationFlow(t *testing.T) {
	store := createTestStorage(t)
	clock := tuitest.NewTimeController(time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local))
	cfg := capture.DefaultConfig()
	cfg.Now = clock.Now
	m := New(WithStorage(store), WithCapture(cfg))

	m = typeAmount(t, m, "250")
	m, _ = send(t, m, tuitest.KeyEnter())
	m, _ = send(t, m, tuitest.KeyLeft()) // Tags
	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, model.FieldTags, m.Snapshot().Editing)

	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeValueCreation, m.Snapshot().Mode)

	m, _ = send(t, m, tuitest.NewInputSequence().Type("Vegas").Messages()...)
	m, _ = send(t, m, tuitest.KeyCtrlT(), tuitest.KeyEnter())

	snap := m.Snapshot()
	assert.Equal(t, capture.ModeFieldEdit, snap.Mode, "tag creation returns to the tag list")
	require.Len(t, snap.Tags, 1)
	assert.Equal(t, "Vegas", snap.Tags[0].Label)

	tags, err := store.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, model.TagTypeTemporary, tags[0].Type)
	require.NotNil(t, tags[0].EndDate)
	assert.Equal(t, "2024-06-08", tags[0].EndDate.Format(DateLayout))
}

func TestModel_TagCreationEditsDates(t *testing.T) {
	store := createTestStorage(t)
	clock := tuitest.NewTimeController(time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local))
	cfg := capture.DefaultConfig()
	cfg.Now = clock.Now
	m := New(WithStorage(store), WithCapture(cfg))

	m = typeAmount(t, m, "250")
	m, _ = send(t, m, tuitest.KeyEnter(), tuitest.KeyLeft(), tuitest.KeyEnter())
	require.Equal(t, model.FieldTags, m.Snapshot().Editing)

	// The form's default range starts on the day it opens.
	clock.Advance(24 * time.Hour)
	m, _ = send(t, m, tuitest.KeyEnter())
	require.NotNil(t, m.create)
	assert.Equal(t, "2024-06-02", m.create.inputs[inputStart].Value())

	m, _ = send(t, m, tuitest.NewInputSequence().Type("Vegas").Messages()...)
	m, _ = send(t, m, tuitest.KeyCtrlT(), tuitest.KeyTab(), tuitest.KeyTab())
	assert.Equal(t, inputEnd, m.create.focus)

	seq := tuitest.NewInputSequence()
	for range len(DateLayout) {
		seq.Add(tuitest.KeyBackspace())
	}
	seq.Type("2024-06-12")
	m, _ = send(t, m, seq.Messages()...)
	assert.Equal(t, "2024-06-12", m.create.inputs[inputEnd].Value())

	// Tab wraps back to the name.
	m, _ = send(t, m, tuitest.KeyTab())
	assert.Equal(t, inputName, m.create.focus)

	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, capture.ModeFieldEdit, m.Snapshot().Mode)

	tags, err := store.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.NotNil(t, tags[0].StartDate)
	require.NotNil(t, tags[0].EndDate)
	assert.Equal(t, "2024-06-02", tags[0].StartDate.Format(DateLayout))
	assert.Equal(t, "2024-06-12", tags[0].EndDate.Format(DateLayout))
}

func TestModel_MouseWheelTicks(t *testing.T) {
	rec := &haptics.Recorder{}
	m := New(WithPulser(rec))

	m, _ = send(t, m, tuitest.MouseWheel(false), tuitest.MouseWheel(false), tuitest.MouseWheel(true))

	assert.Equal(t, 1, m.Snapshot().FocusIndex)
	assert.Equal(t, 3, rec.Count(haptics.Tick))
}

func TestModel_ReviewView(t *testing.T) {
	predictor := &fakePredictor{prediction: model.Prediction{
		Merchant: model.SelectableItem{ID: 1, Label: "Starbucks", Value: "Starbucks"},
		Category: model.SelectableItem{ID: 2, Label: "Dining", Value: "Dining"},
		Account:  model.SelectableItem{ID: 3, Label: "Cash", Value: "Cash"},
	}}
	m := New(WithPredictor(predictor), WithSize(100, 40))

	m = typeAmount(t, m, "500")
	m, _ = send(t, m, tuitest.KeyEnter())

	view := tuitest.NormalizeWhitespace(tuitest.StripANSI(m.View()))
	assert.True(t, tuitest.ContainsInOrder(view,
		"money", "Review details", "$5.00",
		"Merchant: Starbucks", "Category: Dining", "Account: Cash",
	), view)
}

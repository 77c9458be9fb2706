package capture

import "github.com/wapinheiro/money/internal/model"

// Event is an input to the controller: a user action or an async result.
type Event interface {
	isEvent()
}

// Digit appends a digit (0-9) to the amount.
type Digit struct {
	Digit int
}

// DeleteDigit removes the last amount digit.
type DeleteDigit struct{}

// Tick moves the active wheel by one detent.
type Tick struct {
	Direction int // +1 clockwise, -1 counter-clockwise
}

// Tap selects wedge Index on the active wheel.
type Tap struct {
	Index int
}

// PressFocused activates the focused wedge, as if it had been tapped.
type PressFocused struct{}

// Confirm is the centre action of the wheel.
type Confirm struct{}

// Back leaves the current step.
type Back struct{}

// SubmitCreation asks for a new option to be created from Draft.
type SubmitCreation struct {
	Draft model.OptionDraft
}

// CancelCreation abandons value creation.
type CancelCreation struct{}

// PredictionLoaded delivers the result of FetchPrediction.
type PredictionLoaded struct {
	Err        error
	Prediction model.Prediction
	Generation uint64
}

// OptionsLoaded delivers the result of FetchOptions. Tag fields carry the
// full tag records in Tags so the controller can filter by date; other
// fields use Items.
type OptionsLoaded struct {
	Err        error
	Field      model.FieldKey
	Items      []model.SelectableItem
	Tags       []model.Tag
	Generation uint64
}

// OptionCreated delivers the result of CreateOption.
type OptionCreated struct {
	Err        error
	Field      model.FieldKey
	Item       model.SelectableItem
	Generation uint64
}

// SaveCompleted delivers the result of SaveTransaction.
type SaveCompleted struct {
	Err        error
	Record     model.Transaction
	Generation uint64
}

func (Digit) isEvent()            {}
func (DeleteDigit) isEvent()      {}
func (Tick) isEvent()             {}
func (Tap) isEvent()              {}
func (PressFocused) isEvent()     {}
func (Confirm) isEvent()          {}
func (Back) isEvent()             {}
func (SubmitCreation) isEvent()   {}
func (CancelCreation) isEvent()   {}
func (PredictionLoaded) isEvent() {}
func (OptionsLoaded) isEvent()    {}
func (OptionCreated) isEvent()    {}
func (SaveCompleted) isEvent()    {}

// Command is work the host must perform on the controller's behalf. Results
// come back as events carrying the same Generation.
type Command interface {
	isCommand()
}

// FetchPrediction requests a best guess for merchant, category and account.
type FetchPrediction struct {
	Generation uint64
}

// FetchOptions requests the option list for Field.
type FetchOptions struct {
	Field      model.FieldKey
	Generation uint64
}

// CreateOption requests a new option for Field.
type CreateOption struct {
	Field      model.FieldKey
	Draft      model.OptionDraft
	Generation uint64
}

// SaveTransaction requests Record to be persisted.
type SaveTransaction struct {
	Record     model.Transaction
	Generation uint64
}

// Committed reports a successfully saved transaction.
type Committed struct {
	Record model.Transaction
}

// Close asks the host to leave the capture screen.
type Close struct{}

func (FetchPrediction) isCommand() {}
func (FetchOptions) isCommand()    {}
func (CreateOption) isCommand()    {}
func (SaveTransaction) isCommand() {}
func (Committed) isCommand()       {}
func (Close) isCommand()           {}

package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wapinheiro/money/internal/capture"
	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/model"
)

var errNoStorage = fmt.Errorf("%w: storage not configured", common.ErrStoreUnavailable)

// execute turns controller commands into bubbletea commands. Store calls
// run off the UI loop and come back as eventMsg.
func (m Model) execute(cmds []capture.Command) tea.Cmd {
	batch := make([]tea.Cmd, 0, len(cmds))
	for _, c := range cmds {
		switch c := c.(type) {
		case capture.FetchPrediction:
			batch = append(batch, m.fetchPrediction(c))
		case capture.FetchOptions:
			batch = append(batch, m.fetchOptions(c))
		case capture.CreateOption:
			batch = append(batch, m.createOption(c))
		case capture.SaveTransaction:
			batch = append(batch, m.saveTransaction(c))
		case capture.Committed:
			batch = append(batch, func() tea.Msg { return committedMsg{record: c} })
		case capture.Close:
			batch = append(batch, tea.Quit)
		}
	}
	return tea.Batch(batch...)
}

func (m Model) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.config.StoreTimeout)
}

// fetchPrediction loads the best guess for a new capture.
func (m Model) fetchPrediction(c capture.FetchPrediction) tea.Cmd {
	predictor := m.predictor
	return func() tea.Msg {
		if predictor == nil {
			return eventMsg{capture.PredictionLoaded{Generation: c.Generation, Err: errNoStorage}}
		}
		ctx, cancel := m.storeContext()
		defer cancel()

		p, err := predictor.Predict(ctx)
		return eventMsg{capture.PredictionLoaded{Generation: c.Generation, Prediction: p, Err: err}}
	}
}

// fetchOptions loads the option list for one field.
func (m Model) fetchOptions(c capture.FetchOptions) tea.Cmd {
	store := m.config.Storage
	return func() tea.Msg {
		result := capture.OptionsLoaded{Field: c.Field, Generation: c.Generation}
		if store == nil {
			result.Err = errNoStorage
			return eventMsg{result}
		}
		ctx, cancel := m.storeContext()
		defer cancel()

		switch c.Field {
		case model.FieldMerchant:
			merchants, err := store.ListMerchants(ctx)
			result.Err = err
			for _, v := range merchants {
				result.Items = append(result.Items, v.Item())
			}
		case model.FieldCategory:
			categories, err := store.ListCategories(ctx)
			result.Err = err
			for _, v := range categories {
				result.Items = append(result.Items, v.Item())
			}
		case model.FieldAccount:
			accounts, err := store.ListAccounts(ctx)
			result.Err = err
			for _, v := range accounts {
				result.Items = append(result.Items, v.Item())
			}
		case model.FieldTags:
			result.Tags, result.Err = store.ListTags(ctx)
		default:
			result.Err = fmt.Errorf("%w: field %q has no options", common.ErrInvalidInput, c.Field)
		}
		if result.Err != nil {
			result.Err = fmt.Errorf("failed to load %s options: %w", c.Field, result.Err)
		}
		return eventMsg{result}
	}
}

// createOption stores a new merchant, category, account or tag.
func (m Model) createOption(c capture.CreateOption) tea.Cmd {
	store := m.config.Storage
	return func() tea.Msg {
		result := capture.OptionCreated{Field: c.Field, Generation: c.Generation}
		if store == nil {
			result.Err = errNoStorage
			return eventMsg{result}
		}
		ctx, cancel := m.storeContext()
		defer cancel()

		switch c.Field {
		case model.FieldMerchant:
			v, err := store.CreateMerchant(ctx, c.Draft.Name)
			if result.Err = err; err == nil {
				result.Item = v.Item()
			}
		case model.FieldCategory:
			v, err := store.CreateCategory(ctx, c.Draft.Name)
			if result.Err = err; err == nil {
				result.Item = v.Item()
			}
		case model.FieldAccount:
			v, err := store.CreateAccount(ctx, c.Draft.Name)
			if result.Err = err; err == nil {
				result.Item = v.Item()
			}
		case model.FieldTags:
			v, err := store.CreateTag(ctx, c.Draft)
			if result.Err = err; err == nil {
				result.Item = v.Item()
			}
		default:
			result.Err = fmt.Errorf("%w: field %q cannot be created", common.ErrInvalidInput, c.Field)
		}
		return eventMsg{result}
	}
}

// saveTransaction persists the captured record.
func (m Model) saveTransaction(c capture.SaveTransaction) tea.Cmd {
	store := m.config.Storage
	return func() tea.Msg {
		record := c.Record
		if store == nil {
			return eventMsg{capture.SaveCompleted{Generation: c.Generation, Record: record, Err: errNoStorage}}
		}
		ctx, cancel := m.storeContext()
		defer cancel()

		err := store.AddTransaction(ctx, &record)
		return eventMsg{capture.SaveCompleted{Generation: c.Generation, Record: record, Err: err}}
	}
}

// frameTick schedules the next inertia frame of a spin.
func (m Model) frameTick(epoch uint64) tea.Cmd {
	return tea.Tick(m.config.FrameInterval, func(_ time.Time) tea.Msg {
		return frameMsg{epoch: epoch}
	})
}

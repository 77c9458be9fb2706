package capture

import (
	"time"

	"github.com/wapinheiro/money/internal/model"
)

// Session is the transaction being assembled.
type Session struct {
	Fields map[model.FieldKey]model.SelectableItem
	Tags   []model.SelectableItem
	Amount model.Amount
}

// NewSession returns an empty session.
func NewSession() Session {
	return Session{Fields: make(map[model.FieldKey]model.SelectableItem)}
}

// HasTag reports whether item is selected.
func (s Session) HasTag(item model.SelectableItem) bool {
	key := item.Key()
	for _, t := range s.Tags {
		if t.Key() == key {
			return true
		}
	}
	return false
}

// ToggleTag adds item if absent or removes it if present, preserving the
// order of the remaining tags. It reports whether the tag was added.
func (s *Session) ToggleTag(item model.SelectableItem) bool {
	key := item.Key()
	for i, t := range s.Tags {
		if t.Key() == key {
			s.Tags = append(s.Tags[:i:i], s.Tags[i+1:]...)
			return false
		}
	}
	s.Tags = append(s.Tags, item)
	return true
}

// Record builds the transaction to persist.
func (s Session) Record(now time.Time) model.Transaction {
	tagIDs := make([]int64, 0, len(s.Tags))
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t.ID != 0 {
			tagIDs = append(tagIDs, t.ID)
		}
		names = append(names, t.Label)
	}
	return model.Transaction{
		Amount:   s.Amount,
		Date:     now,
		Status:   model.StatusReview,
		Merchant: s.Fields[model.FieldMerchant].Label,
		Category: s.Fields[model.FieldCategory].Label,
		Account:  s.Fields[model.FieldAccount].Label,
		TagIDs:   tagIDs,
		Tags:     names,
	}
}

func (s Session) clone() Session {
	fields := make(map[model.FieldKey]model.SelectableItem, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	tags := make([]model.SelectableItem, len(s.Tags))
	copy(tags, s.Tags)
	return Session{Amount: s.Amount, Fields: fields, Tags: tags}
}

package model

import (
	"sort"
	"strings"
	"time"
)

// TagType distinguishes tags that are always available from tags bound to a date range.
type TagType string

const (
	// TagTypePermanent tags are always offered.
	TagTypePermanent TagType = "permanent"
	// TagTypeTemporary tags are offered only inside their date range.
	TagTypeTemporary TagType = "temporary"
)

// Tag is a free-form label attached to transactions, e.g. a trip.
type Tag struct {
	CreatedAt time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Name      string
	Color     string
	Type      TagType
	ID        int64
}

// IsActive reports whether the tag should be offered at now. Tags without
// an end date are always active. Dates are whole days; the end day is inclusive.
func (t Tag) IsActive(now time.Time) bool {
	if t.EndDate == nil {
		return true
	}
	if t.StartDate != nil && now.Before(startOfDay(*t.StartDate)) {
		return false
	}
	return now.Before(startOfDay(*t.EndDate).AddDate(0, 0, 1))
}

// Item converts the tag into a wheel option.
func (t Tag) Item() SelectableItem {
	sub := ""
	if t.Type == TagTypeTemporary {
		sub = "Temporary"
	}
	return SelectableItem{
		ID:       t.ID,
		Label:    t.Name,
		Value:    t.Name,
		SubLabel: sub,
		Icon:     "🏷️",
		Color:    t.Color,
	}
}

// ActiveTags filters tags to those active at now and orders them temporary
// first, then by name.
func ActiveTags(tags []Tag, now time.Time) []Tag {
	active := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.IsActive(now) {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		ti := active[i].Type == TagTypeTemporary
		tj := active[j].Type == TagTypeTemporary
		if ti != tj {
			return ti
		}
		return strings.ToLower(active[i].Name) < strings.ToLower(active[j].Name)
	})
	return active
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Package seed loads the reference data a fresh database is populated with.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wapinheiro/money/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// DateLayout is the format of tag dates in seed files.
const DateLayout = "2006-01-02"

// Data is a seed document.
type Data struct {
	Categories []Category `yaml:"categories"`
	Merchants  []Merchant `yaml:"merchants"`
	Accounts   []Account  `yaml:"accounts"`
	Tags       []Tag      `yaml:"tags"`
}

// Category is a category entry.
type Category struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
	Type  string `yaml:"type"`
}

// Merchant is a merchant entry. Category names the default category.
type Merchant struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Color    string   `yaml:"color"`
	Category string   `yaml:"category"`
	MCC      string   `yaml:"mcc"`
	Aliases  []string `yaml:"aliases"`
}

// Account is an account entry. Balance is a dollar value such as "12.50".
type Account struct {
	Name        string `yaml:"name"`
	Institution string `yaml:"institution"`
	Type        string `yaml:"type"`
	Color       string `yaml:"color"`
	Balance     string `yaml:"balance"`
}

// Tag is a tag entry. Start and End use DateLayout.
type Tag struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Type  string `yaml:"type"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Default returns the embedded reference data.
func Default() (*Data, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// Load decodes a seed document. Unknown fields are rejected.
func Load(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var data Data
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return &data, nil
		}
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}
	return &data, nil
}

// Len returns the number of records in the document.
func (d *Data) Len() int {
	return len(d.Categories) + len(d.Merchants) + len(d.Accounts) + len(d.Tags)
}

// Model converts the entry into a category record.
func (c Category) Model() model.Category {
	t := model.CategoryType(c.Type)
	if t == "" {
		t = model.CategoryTypeExpense
	}
	return model.Category{Name: c.Name, Icon: c.Icon, Color: c.Color, Type: t}
}

// Model converts the entry into a merchant record.
func (m Merchant) Model() model.Merchant {
	return model.Merchant{
		Name:            m.Name,
		Icon:            m.Icon,
		Color:           m.Color,
		MCC:             m.MCC,
		DefaultCategory: m.Category,
		Aliases:         m.Aliases,
	}
}

// Model converts the entry into an account record.
func (a Account) Model() (model.Account, error) {
	acct := model.Account{
		Name:        a.Name,
		Institution: a.Institution,
		Type:        model.AccountType(a.Type),
		Color:       a.Color,
	}
	if a.Balance != "" {
		balance, err := model.ParseAmount(a.Balance)
		if err != nil {
			return acct, fmt.Errorf("account %q: %w", a.Name, err)
		}
		acct.Balance = balance
	}
	return acct, nil
}

// Model converts the entry into a tag record. Dates are read in the local
// time zone.
func (t Tag) Model() (model.Tag, error) {
	tag := model.Tag{Name: t.Name, Color: t.Color, Type: model.TagType(t.Type)}
	if tag.Type == "" {
		tag.Type = model.TagTypePermanent
	}
	var err error
	if tag.StartDate, err = parseDate(t.Start); err != nil {
		return tag, fmt.Errorf("tag %q start: %w", t.Name, err)
	}
	if tag.EndDate, err = parseDate(t.End); err != nil {
		return tag, fmt.Errorf("tag %q end: %w", t.Name, err)
	}
	return tag, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wapinheiro/money/internal/common"
)

// Amount is a non-negative monetary value in minor units (cents).
type Amount int64

// MaxAmount is the largest amount the keypad accepts ($9,999,999.99).
const MaxAmount Amount = 999_999_999

// AppendDigit shifts the amount one decimal place left and adds d as the
// new lowest cent digit. It reports false and leaves the amount unchanged
// when d is not a decimal digit or the result would exceed MaxAmount.
func (a Amount) AppendDigit(d int) (Amount, bool) {
	if d < 0 || d > 9 {
		return a, false
	}
	next := a*10 + Amount(d)
	if next > MaxAmount {
		return a, false
	}
	return next, true
}

// DeleteDigit drops the lowest cent digit.
func (a Amount) DeleteDigit() Amount {
	return a / 10
}

// IsZero reports whether nothing has been entered yet.
func (a Amount) IsZero() bool {
	return a == 0
}

// String formats the amount as dollars and cents, e.g. "1.25".
func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", int64(a)/100, int64(a)%100)
}

// Display formats the amount with a currency symbol, e.g. "$1.25".
func (a Amount) Display() string {
	return "$" + a.String()
}

// ParseAmount parses a dollar value such as "12", "12.5" or "$1,250.00".
// At most two decimal places are accepted. Errors wrap common.ErrInvalidAmount.
func ParseAmount(s string) (Amount, error) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("%w: empty", common.ErrInvalidAmount)
	}
	whole, frac, _ := strings.Cut(clean, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", common.ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", common.ErrInvalidAmount, s, err)
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", common.ErrInvalidAmount, s, err)
	}
	if dollars > uint64(MaxAmount)/100 {
		return 0, fmt.Errorf("%w: %q exceeds %s", common.ErrInvalidAmount, s, MaxAmount.Display())
	}
	return Amount(dollars*100 + cents), nil
}

package detector

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrZeroPreviousPrice means the history holds a zero price. A zero
// previous price can only come from invalid recorded state, so it is
// surfaced instead of being treated as "no change".
var ErrZeroPreviousPrice = errors.New("previous price is zero")

var hundred = decimal.NewFromInt(100)

// Delta returns the percentage change between the previous and the current
// price, rounded to the nearest integer. The sign convention follows the
// alerting rule: a positive delta means the price decreased.
func Delta(previous, current int64) (int64, error) {
	if previous == 0 {
		return 0, ErrZeroPreviousPrice
	}

	prev := decimal.NewFromInt(previous)
	change := prev.Sub(decimal.NewFromInt(current)).Div(prev).Mul(hundred)

	return change.Round(0).IntPart(), nil
}

// PriceDropped reports whether a delta warrants an alert.
func PriceDropped(delta int64) bool {
	return delta > 0
}

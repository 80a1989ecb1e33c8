// Package stats holds the percentage arithmetic behind the dashboard figures:
// stage-to-stage rates, drop-off, market share and relative change.
package stats

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole × 100 rounded to places. A zero whole yields 0.
func Percent(part, whole int64, places int32) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Div(decimal.NewFromInt(whole)).
		Mul(hundred).
		Round(places)
}

// Dropoff returns the share of previous lost at current, (1 − current/previous) × 100,
// rounded to places.
func Dropoff(current, previous int64, places int32) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	kept := decimal.NewFromInt(current).Div(decimal.NewFromInt(previous))
	return decimal.NewFromInt(1).Sub(kept).Mul(hundred).Round(places)
}

// RelativeChange returns (to − from)/from × 100 rounded to places.
func RelativeChange(from, to decimal.Decimal, places int32) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred).Round(places)
}

// Sum adds values.
func Sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean of values, or 0 when empty.
func Mean(values []int64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(Sum(values)).Div(decimal.NewFromInt(int64(len(values))))
}

// Shares returns each value's Percent of their sum.
func Shares(values []int64, places int32) []decimal.Decimal {
	total := Sum(values)
	shares := make([]decimal.Decimal, len(values))
	for i, v := range values {
		shares[i] = Percent(v, total, places)
	}
	return shares
}

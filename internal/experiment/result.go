package experiment

import (
	"github.com/shopspring/decimal"

	"github.com/ecomdash/ecomdash/internal/stats"
)

// SignificanceThreshold is the p-value below which a result is significant.
var SignificanceThreshold = decimal.RequireFromString("0.05")

// GroupSummary describes one arm of the A/B test. ConversionRatePercent and
// TotalRevenue are supplied figures, not derived from the counts.
type GroupSummary struct {
	UserCount             int64
	ConversionCount       int64
	ConversionRatePercent decimal.Decimal
	AverageOrderValue     decimal.Decimal
	TotalRevenue          decimal.Decimal
}

// Result is the outcome of a completed run.
type Result struct {
	GroupA             GroupSummary
	GroupB             GroupSummary
	ImprovementPercent decimal.Decimal
	PValue             decimal.Decimal
	IsSignificant      bool
}

// NewResult derives the improvement and verdict from two groups and a p-value.
func NewResult(a, b GroupSummary, pValue decimal.Decimal) Result {
	return Result{
		GroupA:             a,
		GroupB:             b,
		ImprovementPercent: stats.RelativeChange(a.ConversionRatePercent, b.ConversionRatePercent, 2),
		PValue:             pValue,
		IsSignificant:      pValue.LessThan(SignificanceThreshold),
	}
}

// RevenueGain is group B's revenue minus group A's.
func (r Result) RevenueGain() decimal.Decimal {
	return r.GroupB.TotalRevenue.Sub(r.GroupA.TotalRevenue)
}

// Equal reports whether both results hold the same values.
func (r Result) Equal(o Result) bool {
	return r.GroupA.equal(o.GroupA) &&
		r.GroupB.equal(o.GroupB) &&
		r.ImprovementPercent.Equal(o.ImprovementPercent) &&
		r.PValue.Equal(o.PValue) &&
		r.IsSignificant == o.IsSignificant
}

func (g GroupSummary) equal(o GroupSummary) bool {
	return g.UserCount == o.UserCount &&
		g.ConversionCount == o.ConversionCount &&
		g.ConversionRatePercent.Equal(o.ConversionRatePercent) &&
		g.AverageOrderValue.Equal(o.AverageOrderValue) &&
		g.TotalRevenue.Equal(o.TotalRevenue)
}

// Fixture returns the result every run reports.
func Fixture() Result {
	groupA := GroupSummary{
		UserCount:             50234,
		ConversionCount:       798,
		ConversionRatePercent: decimal.RequireFromString("1.59"),
		AverageOrderValue:     decimal.RequireFromString("45.67"),
		TotalRevenue:          decimal.RequireFromString("36443.66"),
	}
	groupB := GroupSummary{
		UserCount:             50187,
		ConversionCount:       923,
		ConversionRatePercent: decimal.RequireFromString("1.84"),
		AverageOrderValue:     decimal.RequireFromString("47.23"),
		TotalRevenue:          decimal.RequireFromString("43589.29"),
	}
	return NewResult(groupA, groupB, decimal.RequireFromString("0.0234"))
}

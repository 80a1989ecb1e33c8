package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable point-in-time set of aggregate pipeline metrics.
//
// ConversionRatePercent is reported independently of TransactionCount and
// UserCount; it is not their ratio.
type Snapshot struct {
	EventCount            int64
	UserCount             int64
	TransactionCount      int64
	ConversionRatePercent decimal.Decimal
	UpdatedAt             time.Time
}

// Equal reports whether both snapshots hold the same values.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.EventCount == o.EventCount &&
		s.UserCount == o.UserCount &&
		s.TransactionCount == o.TransactionCount &&
		s.ConversionRatePercent.Equal(o.ConversionRatePercent) &&
		s.UpdatedAt.Equal(o.UpdatedAt)
}

// Bounds of a single refresh step.
const (
	MaxEventDelta       = 10000
	MaxUserDelta        = 1000
	MaxTransactionDelta = 100
)

var (
	MinConversionRate = decimal.RequireFromString("1.50")
	MaxConversionRate = decimal.RequireFromString("1.80")
)

// InitialSnapshot returns the figures the dashboard starts from.
func InitialSnapshot(now time.Time) Snapshot {
	return Snapshot{
		EventCount:            2347845,
		UserCount:             1407580,
		TransactionCount:      22457,
		ConversionRatePercent: decimal.RequireFromString("1.59"),
		UpdatedAt:             now,
	}
}

// Rand is the random source used to perturb snapshots. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// next returns prev perturbed by one refresh step.
func next(prev Snapshot, r Rand, now time.Time) Snapshot {
	spread := MaxConversionRate.Sub(MinConversionRate).InexactFloat64()
	rate := decimal.NewFromFloat(MinConversionRate.InexactFloat64() + r.Float64()*spread).Round(2)

	return Snapshot{
		EventCount:            prev.EventCount + int64(r.IntN(MaxEventDelta)),
		UserCount:             prev.UserCount + int64(r.IntN(MaxUserDelta)),
		TransactionCount:      prev.TransactionCount + int64(r.IntN(MaxTransactionDelta)),
		ConversionRatePercent: rate,
		UpdatedAt:             now,
	}
}

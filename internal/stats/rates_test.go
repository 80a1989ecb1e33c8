package stats_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ecomdash/ecomdash/internal/stats"
)

func TestPercent_FunnelRates(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int64
		want        string
	}{
		{"views to cart", 69332, 1407580, "4.93"},
		{"cart to purchase", 22457, 69332, "32.39"},
		{"overall", 22457, 1407580, "1.60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.Percent(tt.part, tt.whole, 2).StringFixed(2)
			if got != tt.want {
				t.Errorf("Percent(%d, %d) = %s, want %s", tt.part, tt.whole, got, tt.want)
			}
		})
	}
}

func TestPercent_ZeroWhole(t *testing.T) {
	if got := stats.Percent(10, 0, 2); !got.IsZero() {
		t.Errorf("expected 0 for zero whole, got %s", got)
	}
}

func TestDropoff(t *testing.T) {
	if got := stats.Dropoff(69332, 1407580, 1).StringFixed(1); got != "95.1" {
		t.Errorf("views to cart drop-off = %s, want 95.1", got)
	}
	if got := stats.Dropoff(22457, 69332, 1).StringFixed(1); got != "67.6" {
		t.Errorf("cart to purchase drop-off = %s, want 67.6", got)
	}
	if got := stats.Dropoff(5, 0, 1); !got.IsZero() {
		t.Errorf("expected 0 for zero previous, got %s", got)
	}
}

func TestShares_MarketShare(t *testing.T) {
	sales := []int64{891, 742, 658, 623, 594}
	if total := stats.Sum(sales); total != 3508 {
		t.Fatalf("expected total 3508, got %d", total)
	}

	want := []string{"25.4", "21.2", "18.8", "17.8", "16.9"}
	got := stats.Shares(sales, 1)
	for i := range want {
		if got[i].StringFixed(1) != want[i] {
			t.Errorf("share %d = %s, want %s", i, got[i].StringFixed(1), want[i])
		}
	}
}

func TestRelativeChange(t *testing.T) {
	from := decimal.RequireFromString("1.59")
	to := decimal.RequireFromString("1.84")
	if got := stats.RelativeChange(from, to, 2).StringFixed(2); got != "15.72" {
		t.Errorf("RelativeChange = %s, want 15.72", got)
	}
	if got := stats.RelativeChange(decimal.Zero, to, 2); !got.IsZero() {
		t.Errorf("expected 0 for zero baseline, got %s", got)
	}
}

func TestMean(t *testing.T) {
	daily := []int64{312456, 345678, 378945, 389234, 412567, 456789, 398234}
	if got := stats.Mean(daily).Round(0).String(); got != "384843" {
		t.Errorf("Mean = %s, want 384843", got)
	}
	if got := stats.Mean(nil); !got.IsZero() {
		t.Errorf("expected 0 mean for no values, got %s", got)
	}
}

package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ecomdash/ecomdash/internal/store"
)

// FunnelStage is a funnel step with its loss relative to the previous step.
// DropoffPercent is nil for the first stage.
type FunnelStage struct {
	Name           string
	Value          int64
	Color          string
	DropoffPercent *decimal.Decimal
}

type FunnelReport struct {
	Stages                []FunnelStage
	ViewToCartPercent     decimal.Decimal
	CartToPurchasePercent decimal.Decimal
	OverallPercent        decimal.Decimal
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
)

// trendingCount is how many of the best sellers are flagged as rising.
const trendingCount = 2

type ProductShare struct {
	Rank         int
	ID           string
	Name         string
	Sales        int64
	SharePercent decimal.Decimal
	Trend        Trend
}

type ProductReport struct {
	TotalSales int64
	Products   []ProductShare
}

type CategoryShare struct {
	Name         string
	Value        int64
	Color        string
	SharePercent decimal.Decimal
}

type CategoryReport struct {
	Total      int64
	Categories []CategoryShare
}

type HourPoint struct {
	Hour   int
	Label  string
	Events int64
}

type DayPoint struct {
	Name   string
	Events int64
}

type ActivityReport struct {
	Hourly       []HourPoint
	Daily        []DayPoint
	PeakHour     HourPoint
	BusiestDay   DayPoint
	DailyAverage int64
}

type PipelineReport struct {
	Stages []store.PipelineStage
}

// HourLabel renders an hour of day the way the dashboard labels its axis.
func HourLabel(hour int) string {
	return fmt.Sprintf("%dh", hour)
}

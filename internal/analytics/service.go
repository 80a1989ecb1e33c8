// Package analytics builds the dashboard read models from the fixture datasets.
package analytics

import (
	"context"
	"fmt"

	"github.com/ecomdash/ecomdash/internal/stats"
	"github.com/ecomdash/ecomdash/internal/store"
)

// Repository exposes the subset of the dataset store required by the service.
type Repository interface {
	FunnelStages(ctx context.Context) ([]store.FunnelStage, error)
	TopProducts(ctx context.Context, limit int) ([]store.Product, error)
	Categories(ctx context.Context) ([]store.Category, error)
	HourlyActivity(ctx context.Context) ([]store.HourlyActivity, error)
	DailyActivity(ctx context.Context) ([]store.DailyActivity, error)
	PipelineStages(ctx context.Context) ([]store.PipelineStage, error)
}

// DefaultProductLimit is the size of the top products table.
const DefaultProductLimit = 5

// Summary aggregates every report shown on the dashboard.
type Summary struct {
	Funnel     FunnelReport
	Products   ProductReport
	Categories CategoryReport
	Activity   ActivityReport
	Pipeline   PipelineReport
}

// Service coordinates report preparation from the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary loads every report.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.Funnel, err = s.Funnel(ctx); err != nil {
		return Summary{}, err
	}
	if sum.Products, err = s.Products(ctx, DefaultProductLimit); err != nil {
		return Summary{}, err
	}
	if sum.Categories, err = s.Categories(ctx); err != nil {
		return Summary{}, err
	}
	if sum.Activity, err = s.Activity(ctx); err != nil {
		return Summary{}, err
	}
	if sum.Pipeline, err = s.Pipeline(ctx); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// Funnel computes drop-off per stage and the stage-to-stage conversion rates.
func (s *Service) Funnel(ctx context.Context) (FunnelReport, error) {
	rows, err := s.repo.FunnelStages(ctx)
	if err != nil {
		return FunnelReport{}, fmt.Errorf("analytics: funnel: %w", err)
	}

	report := FunnelReport{Stages: make([]FunnelStage, len(rows))}
	for i, row := range rows {
		stage := FunnelStage{Name: row.Name, Value: row.Value, Color: row.Color}
		if i > 0 {
			d := stats.Dropoff(row.Value, rows[i-1].Value, 1)
			stage.DropoffPercent = &d
		}
		report.Stages[i] = stage
	}

	if len(rows) >= 3 {
		views, carts, purchases := rows[0].Value, rows[1].Value, rows[2].Value
		report.ViewToCartPercent = stats.Percent(carts, views, 2)
		report.CartToPurchasePercent = stats.Percent(purchases, carts, 2)
	}
	if len(rows) >= 2 {
		report.OverallPercent = stats.Percent(rows[len(rows)-1].Value, rows[0].Value, 2)
	}
	return report, nil
}

// Products ranks the best sellers and computes their share of the listed sales.
func (s *Service) Products(ctx context.Context, limit int) (ProductReport, error) {
	rows, err := s.repo.TopProducts(ctx, limit)
	if err != nil {
		return ProductReport{}, fmt.Errorf("analytics: products: %w", err)
	}

	sales := make([]int64, len(rows))
	for i, p := range rows {
		sales[i] = p.Sales
	}
	shares := stats.Shares(sales, 1)

	report := ProductReport{
		TotalSales: stats.Sum(sales),
		Products:   make([]ProductShare, len(rows)),
	}
	for i, p := range rows {
		trend := TrendStable
		if i < trendingCount {
			trend = TrendUp
		}
		report.Products[i] = ProductShare{
			Rank:         i + 1,
			ID:           p.ID,
			Name:         p.Name,
			Sales:        p.Sales,
			SharePercent: shares[i],
			Trend:        trend,
		}
	}
	return report, nil
}

// Categories computes each category's share of the total, in whole percents.
func (s *Service) Categories(ctx context.Context) (CategoryReport, error) {
	rows, err := s.repo.Categories(ctx)
	if err != nil {
		return CategoryReport{}, fmt.Errorf("analytics: categories: %w", err)
	}

	values := make([]int64, len(rows))
	for i, c := range rows {
		values[i] = c.Value
	}
	shares := stats.Shares(values, 0)

	report := CategoryReport{
		Total:      stats.Sum(values),
		Categories: make([]CategoryShare, len(rows)),
	}
	for i, c := range rows {
		report.Categories[i] = CategoryShare{
			Name:         c.Name,
			Value:        c.Value,
			Color:        c.Color,
			SharePercent: shares[i],
		}
	}
	return report, nil
}

// Activity returns the hourly and daily series with their peaks and the
// average events per day.
func (s *Service) Activity(ctx context.Context) (ActivityReport, error) {
	hourly, err := s.repo.HourlyActivity(ctx)
	if err != nil {
		return ActivityReport{}, fmt.Errorf("analytics: hourly activity: %w", err)
	}
	daily, err := s.repo.DailyActivity(ctx)
	if err != nil {
		return ActivityReport{}, fmt.Errorf("analytics: daily activity: %w", err)
	}

	var report ActivityReport
	for _, h := range hourly {
		point := HourPoint{Hour: h.Hour, Label: HourLabel(h.Hour), Events: h.Events}
		report.Hourly = append(report.Hourly, point)
		if point.Events > report.PeakHour.Events {
			report.PeakHour = point
		}
	}

	dayEvents := make([]int64, len(daily))
	for i, d := range daily {
		point := DayPoint{Name: d.Name, Events: d.Events}
		report.Daily = append(report.Daily, point)
		dayEvents[i] = d.Events
		if point.Events > report.BusiestDay.Events {
			report.BusiestDay = point
		}
	}
	report.DailyAverage = stats.Mean(dayEvents).Round(0).IntPart()

	return report, nil
}

func (s *Service) Pipeline(ctx context.Context) (PipelineReport, error) {
	stages, err := s.repo.PipelineStages(ctx)
	if err != nil {
		return PipelineReport{}, fmt.Errorf("analytics: pipeline: %w", err)
	}
	return PipelineReport{Stages: stages}, nil
}

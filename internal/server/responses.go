package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecomdash/ecomdash/internal/analytics"
	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/metrics"
)

type metricsResponse struct {
	EventCount            int64     `json:"event_count"`
	UserCount             int64     `json:"user_count"`
	TransactionCount      int64     `json:"transaction_count"`
	ConversionRatePercent float64   `json:"conversion_rate_percent"`
	UpdatedAt             time.Time `json:"updated_at"`
	Refreshing            bool      `json:"refreshing"`
}

type refreshResponse struct {
	Started    bool             `json:"started"`
	Refreshing bool             `json:"refreshing"`
	Metrics    *metricsResponse `json:"metrics,omitempty"`
}

type funnelStageResponse struct {
	Name           string   `json:"name"`
	Value          int64    `json:"value"`
	Color          string   `json:"color"`
	DropoffPercent *float64 `json:"dropoff_percent"`
}

type funnelResponse struct {
	Stages                []funnelStageResponse `json:"stages"`
	ViewToCartPercent     float64               `json:"view_to_cart_percent"`
	CartToPurchasePercent float64               `json:"cart_to_purchase_percent"`
	OverallPercent        float64               `json:"overall_percent"`
}

type productResponse struct {
	Rank         int     `json:"rank"`
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Sales        int64   `json:"sales"`
	SharePercent float64 `json:"share_percent"`
	Trend        string  `json:"trend"`
}

type productsResponse struct {
	TotalSales int64             `json:"total_sales"`
	Products   []productResponse `json:"products"`
}

type categoryResponse struct {
	Name         string  `json:"name"`
	Value        int64   `json:"value"`
	Color        string  `json:"color"`
	SharePercent float64 `json:"share_percent"`
}

type categoriesResponse struct {
	Total      int64              `json:"total"`
	Categories []categoryResponse `json:"categories"`
}

type hourResponse struct {
	Hour   int    `json:"hour"`
	Label  string `json:"label"`
	Events int64  `json:"events"`
}

type dayResponse struct {
	Name   string `json:"name"`
	Events int64  `json:"events"`
}

type activityResponse struct {
	Hourly       []hourResponse `json:"hourly"`
	Daily        []dayResponse  `json:"daily"`
	PeakHour     hourResponse   `json:"peak_hour"`
	BusiestDay   dayResponse    `json:"busiest_day"`
	DailyAverage int64          `json:"daily_average"`
}

type pipelineStageResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type pipelineResponse struct {
	Stages []pipelineStageResponse `json:"stages"`
}

type groupResponse struct {
	Users                 int64   `json:"users"`
	Conversions           int64   `json:"conversions"`
	ConversionRatePercent float64 `json:"conversion_rate_percent"`
	AverageOrderValue     float64 `json:"average_order_value"`
	TotalRevenue          float64 `json:"total_revenue"`
}

type resultResponse struct {
	GroupA             groupResponse `json:"group_a"`
	GroupB             groupResponse `json:"group_b"`
	ImprovementPercent float64       `json:"improvement_percent"`
	PValue             float64       `json:"p_value"`
	IsSignificant      bool          `json:"is_significant"`
	RevenueGain        float64       `json:"revenue_gain"`
}

type experimentResponse struct {
	State     string          `json:"state"`
	RunID     string          `json:"run_id,omitempty"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	Result    *resultResponse `json:"result"`
}

type startResponse struct {
	Started bool `json:"started"`
	experimentResponse
}

type summaryResponse struct {
	Metrics    metricsResponse    `json:"metrics"`
	Funnel     funnelResponse     `json:"funnel"`
	Products   productsResponse   `json:"products"`
	Categories categoriesResponse `json:"categories"`
	Activity   activityResponse   `json:"activity"`
	Pipeline   pipelineResponse   `json:"pipeline"`
	Experiment experimentResponse `json:"experiment"`
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func newMetricsResponse(snap metrics.Snapshot, refreshing bool) metricsResponse {
	return metricsResponse{
		EventCount:            snap.EventCount,
		UserCount:             snap.UserCount,
		TransactionCount:      snap.TransactionCount,
		ConversionRatePercent: toFloat(snap.ConversionRatePercent),
		UpdatedAt:             snap.UpdatedAt,
		Refreshing:            refreshing,
	}
}

func newFunnelResponse(rep analytics.FunnelReport) funnelResponse {
	resp := funnelResponse{
		Stages:                make([]funnelStageResponse, len(rep.Stages)),
		ViewToCartPercent:     toFloat(rep.ViewToCartPercent),
		CartToPurchasePercent: toFloat(rep.CartToPurchasePercent),
		OverallPercent:        toFloat(rep.OverallPercent),
	}
	for i, st := range rep.Stages {
		resp.Stages[i] = funnelStageResponse{Name: st.Name, Value: st.Value, Color: st.Color}
		if st.DropoffPercent != nil {
			d := toFloat(*st.DropoffPercent)
			resp.Stages[i].DropoffPercent = &d
		}
	}
	return resp
}

func newProductsResponse(rep analytics.ProductReport) productsResponse {
	resp := productsResponse{
		TotalSales: rep.TotalSales,
		Products:   make([]productResponse, len(rep.Products)),
	}
	for i, p := range rep.Products {
		resp.Products[i] = productResponse{
			Rank:         p.Rank,
			ID:           p.ID,
			Name:         p.Name,
			Sales:        p.Sales,
			SharePercent: toFloat(p.SharePercent),
			Trend:        string(p.Trend),
		}
	}
	return resp
}

func newCategoriesResponse(rep analytics.CategoryReport) categoriesResponse {
	resp := categoriesResponse{
		Total:      rep.Total,
		Categories: make([]categoryResponse, len(rep.Categories)),
	}
	for i, c := range rep.Categories {
		resp.Categories[i] = categoryResponse{
			Name:         c.Name,
			Value:        c.Value,
			Color:        c.Color,
			SharePercent: toFloat(c.SharePercent),
		}
	}
	return resp
}

func newActivityResponse(rep analytics.ActivityReport) activityResponse {
	resp := activityResponse{
		Hourly:       make([]hourResponse, len(rep.Hourly)),
		Daily:        make([]dayResponse, len(rep.Daily)),
		PeakHour:     hourResponse(rep.PeakHour),
		BusiestDay:   dayResponse(rep.BusiestDay),
		DailyAverage: rep.DailyAverage,
	}
	for i, h := range rep.Hourly {
		resp.Hourly[i] = hourResponse(h)
	}
	for i, d := range rep.Daily {
		resp.Daily[i] = dayResponse(d)
	}
	return resp
}

func newPipelineResponse(rep analytics.PipelineReport) pipelineResponse {
	resp := pipelineResponse{Stages: make([]pipelineStageResponse, len(rep.Stages))}
	for i, st := range rep.Stages {
		resp.Stages[i] = pipelineStageResponse{Name: st.Name, Status: string(st.Status)}
	}
	return resp
}

func newGroupResponse(g experiment.GroupSummary) groupResponse {
	return groupResponse{
		Users:                 g.UserCount,
		Conversions:           g.ConversionCount,
		ConversionRatePercent: toFloat(g.ConversionRatePercent),
		AverageOrderValue:     toFloat(g.AverageOrderValue),
		TotalRevenue:          toFloat(g.TotalRevenue),
	}
}

func newResultResponse(res experiment.Result) *resultResponse {
	return &resultResponse{
		GroupA:             newGroupResponse(res.GroupA),
		GroupB:             newGroupResponse(res.GroupB),
		ImprovementPercent: toFloat(res.ImprovementPercent),
		PValue:             toFloat(res.PValue),
		IsSignificant:      res.IsSignificant,
		RevenueGain:        toFloat(res.RevenueGain()),
	}
}

func newExperimentResponse(st experiment.Status) experimentResponse {
	resp := experimentResponse{State: st.State.String()}
	if st.RunID != uuid.Nil {
		resp.RunID = st.RunID.String()
		startedAt := st.StartedAt
		resp.StartedAt = &startedAt
	}
	if st.Result != nil {
		resp.Result = newResultResponse(*st.Result)
	}
	return resp
}

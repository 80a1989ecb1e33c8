package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ecomdash/ecomdash/internal/analytics"
	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/format"
	"github.com/ecomdash/ecomdash/internal/store"
)

// Dashboard template data structures
type layoutData struct {
	Lang       string
	Title      string
	CSS        template.CSS
	Content    template.HTML
	AutoReload bool
}

type kpiCard struct {
	Title    string
	Value    string
	Subtitle string
}

type categoryRow struct {
	Name  string
	Value string
	Share string
	Color string
}

type pipelineRow struct {
	Name    string
	Status  string
	Running bool
}

type funnelRow struct {
	Name    string
	Value   string
	Dropoff string
}

type productRow struct {
	Rank   int
	ID     string
	Sales  string
	Share  string
	Rising bool
}

type barRow struct {
	Label string
	Value string
	Width int64
}

type groupCard struct {
	Title        string
	Users        string
	Conversions  string
	Rate         string
	AverageOrder string
	Revenue      string
}

type experimentView struct {
	Running     bool
	Completed   bool
	Significant bool
	format.Verdict
	Groups []groupCard
}

type overviewData struct {
	UpdatedAt    string
	Refreshing   bool
	KPIs         []kpiCard
	Categories   []categoryRow
	Pipeline     []pipelineRow
	Funnel       []funnelRow
	FunnelRates  []kpiCard
	Products     []productRow
	Hourly       []barRow
	Daily        []barRow
	ActivityKPIs []kpiCard
	Experiment   experimentView
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// Handle logout
	if r.URL.Query().Get("logout") == "1" {
		http.SetCookie(w, &http.Cookie{
			Name:   tokenCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	sum, err := s.reports.Summary(r.Context())
	if err != nil {
		s.log.Error("failed to load reports", slog.Any("error", err))
		http.Error(w, "Failed to load reports", http.StatusInternalServerError)
		return
	}

	data := s.overview(sum)
	s.renderDashboard(w, "E-Commerce Dashboard", "overview.html", data, data.Refreshing || data.Experiment.Running)
}

func (s *Server) overview(sum analytics.Summary) overviewData {
	l := s.locale
	snap := s.live.Snapshot()

	data := overviewData{
		UpdatedAt:  l.Timestamp(snap.UpdatedAt),
		Refreshing: s.live.IsRefreshing(),
		KPIs: []kpiCard{
			{Title: "Events processed", Value: l.Integer(snap.EventCount), Subtitle: "Pipeline throughput"},
			{Title: "Unique users", Value: l.Integer(snap.UserCount), Subtitle: "Active visitors"},
			{Title: "Transactions", Value: l.Integer(snap.TransactionCount), Subtitle: "Completed purchases"},
			{Title: "Conversion rate", Value: l.Percent(snap.ConversionRatePercent, 2), Subtitle: "Views to purchases"},
		},
		FunnelRates: []kpiCard{
			{Title: "View to cart", Value: l.Percent(sum.Funnel.ViewToCartPercent, 2)},
			{Title: "Cart to purchase", Value: l.Percent(sum.Funnel.CartToPurchasePercent, 2)},
			{Title: "Overall conversion", Value: l.Percent(sum.Funnel.OverallPercent, 2)},
		},
		ActivityKPIs: []kpiCard{
			{Title: "Peak hour", Value: sum.Activity.PeakHour.Label, Subtitle: l.Integer(sum.Activity.PeakHour.Events) + " events"},
			{Title: "Busiest day", Value: sum.Activity.BusiestDay.Name, Subtitle: l.Integer(sum.Activity.BusiestDay.Events) + " events"},
			{Title: "Daily average", Value: l.Integer(sum.Activity.DailyAverage), Subtitle: "events per day"},
		},
		Experiment: s.experimentView(),
	}

	for _, c := range sum.Categories.Categories {
		data.Categories = append(data.Categories, categoryRow{
			Name:  c.Name,
			Value: l.Integer(c.Value),
			Share: l.Percent(c.SharePercent, 0),
			Color: c.Color,
		})
	}
	for _, st := range sum.Pipeline.Stages {
		data.Pipeline = append(data.Pipeline, pipelineRow{
			Name:    st.Name,
			Status:  string(st.Status),
			Running: st.Status == store.PipelineRunning,
		})
	}
	for _, st := range sum.Funnel.Stages {
		row := funnelRow{Name: st.Name, Value: l.Integer(st.Value)}
		if st.DropoffPercent != nil {
			row.Dropoff = l.Percent(*st.DropoffPercent, 1)
		}
		data.Funnel = append(data.Funnel, row)
	}
	for _, p := range sum.Products.Products {
		data.Products = append(data.Products, productRow{
			Rank:   p.Rank,
			ID:     p.ID,
			Sales:  l.Integer(p.Sales),
			Share:  l.Percent(p.SharePercent, 1),
			Rising: p.Trend == analytics.TrendUp,
		})
	}

	hourly := make([]int64, len(sum.Activity.Hourly))
	for i, h := range sum.Activity.Hourly {
		hourly[i] = h.Events
	}
	for i, w := range barWidths(hourly) {
		h := sum.Activity.Hourly[i]
		data.Hourly = append(data.Hourly, barRow{Label: h.Label, Value: l.Integer(h.Events), Width: w})
	}

	daily := make([]int64, len(sum.Activity.Daily))
	for i, d := range sum.Activity.Daily {
		daily[i] = d.Events
	}
	for i, w := range barWidths(daily) {
		d := sum.Activity.Daily[i]
		data.Daily = append(data.Daily, barRow{Label: d.Name, Value: l.Integer(d.Events), Width: w})
	}

	return data
}

func (s *Server) experimentView() experimentView {
	st := s.runner.Status()
	view := experimentView{
		Running:   st.State == experiment.StateRunning,
		Completed: st.State == experiment.StateCompleted && st.Result != nil,
	}
	if !view.Completed {
		return view
	}

	l := s.locale
	res := *st.Result
	view.Significant = res.IsSignificant
	view.Verdict = l.Verdict(res)
	for _, g := range []struct {
		title string
		group experiment.GroupSummary
	}{
		{"Group A (control)", res.GroupA},
		{"Group B (variant)", res.GroupB},
	} {
		view.Groups = append(view.Groups, groupCard{
			Title:        g.title,
			Users:        l.Integer(g.group.UserCount),
			Conversions:  l.Integer(g.group.ConversionCount),
			Rate:         l.Percent(g.group.ConversionRatePercent, 2),
			AverageOrder: l.Currency(g.group.AverageOrderValue),
			Revenue:      l.Currency(g.group.TotalRevenue),
		})
	}
	return view
}

// barWidths scales values to percentages of the largest one.
func barWidths(values []int64) []int64 {
	var peak int64
	for _, v := range values {
		peak = max(peak, v)
	}
	widths := make([]int64, len(values))
	if peak == 0 {
		return widths
	}
	for i, v := range values {
		widths[i] = v * 100 / peak
	}
	return widths
}

func (s *Server) renderDashboard(w http.ResponseWriter, title, contentTemplate string, data any, autoReload bool) {
	var contentBuf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&contentBuf, contentTemplate, data); err != nil {
		s.log.Error("failed to render template", slog.String("template", contentTemplate), slog.Any("error", err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	layout := layoutData{
		Lang:       s.locale.String(),
		Title:      title,
		CSS:        s.css,
		Content:    template.HTML(contentBuf.String()),
		AutoReload: autoReload,
	}

	var page bytes.Buffer
	if err := s.templates.ExecuteTemplate(&page, "layout.html", layout); err != nil {
		s.log.Error("failed to render layout", slog.Any("error", err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

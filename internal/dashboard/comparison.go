package dashboard

import (
	"context"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/forecast"
	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

// PeriodSummary is one period's aggregate funnel figures.
type PeriodSummary struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	TotalSpend      float64 `json:"total_spend"`
	TotalLeads      int     `json:"total_leads"`
	TotalCases      int     `json:"total_cases"`
	TotalRetainers  int     `json:"total_retainers"`
	TotalInPractice int     `json:"total_in_practice"`
	AvgCPL          float64 `json:"avg_cpl"`
	AvgCPA          float64 `json:"avg_cpa"`
	AvgCPR          float64 `json:"avg_cpr"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// MetricChange compares one figure across the two periods.
type MetricChange struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// ComparisonResponse is the /api/comparison-data payload.
type ComparisonResponse struct {
	Period         string                  `json:"period"`
	CurrentPeriod  PeriodSummary           `json:"current_period"`
	PreviousPeriod PeriodSummary           `json:"previous_period"`
	Changes        map[string]MetricChange `json:"changes"`
	DataSource     models.DataSource       `json:"data_source"`
	Timestamp      time.Time               `json:"timestamp"`
}

// Comparison contrasts the selected period against its natural
// predecessor: yesterday for today, the prior week for this week, the
// same elapsed span of last month for mtd, or an equal-length window
// immediately before a custom range.
func (s *Service) Comparison(ctx context.Context, period, customStart, customEnd string, f models.LeadFilters) *ComparisonResponse {
	curStart, curEnd, prevStart, prevEnd := s.comparisonRange(period, customStart, customEnd)

	cur, curSource := s.periodSummary(ctx, curStart, curEnd, f)
	prev, prevSource := s.periodSummary(ctx, prevStart, prevEnd, f)

	source := curSource
	if prevSource != curSource {
		source = models.SourcePartial
	}

	resp := &ComparisonResponse{
		Period:         period,
		CurrentPeriod:  cur,
		PreviousPeriod: prev,
		DataSource:     source,
		Timestamp:      s.now(),
		Changes:        map[string]MetricChange{},
	}

	pairs := map[string][2]float64{
		"total_spend":     {cur.TotalSpend, prev.TotalSpend},
		"total_leads":     {float64(cur.TotalLeads), float64(prev.TotalLeads)},
		"total_cases":     {float64(cur.TotalCases), float64(prev.TotalCases)},
		"total_retainers": {float64(cur.TotalRetainers), float64(prev.TotalRetainers)},
		"avg_cpl":         {cur.AvgCPL, prev.AvgCPL},
		"avg_cpa":         {cur.AvgCPA, prev.AvgCPA},
		"avg_cpr":         {cur.AvgCPR, prev.AvgCPR},
		"conversion_rate": {cur.ConversionRate, prev.ConversionRate},
	}
	for name, v := range pairs {
		c, p := v[0], v[1]
		var pct float64
		switch {
		case p > 0:
			pct = utils.Round2((c - p) / p * 100)
		case c > 0:
			pct = 100
		}
		resp.Changes[name] = MetricChange{Current: c, Previous: p, Change: c - p, ChangePercent: pct}
	}
	return resp
}

func (s *Service) periodSummary(ctx context.Context, start, end string, f models.LeadFilters) (PeriodSummary, models.DataSource) {
	campaigns, leads, source := s.fetch(ctx, start, end, defaultLeadLimit, f, true)
	res := s.mapper.Process(campaigns, leads)

	sum := PeriodSummary{Start: start, End: end}
	for _, b := range res.Buckets {
		sum.TotalSpend += b.Cost
		sum.TotalLeads += b.Leads
		sum.TotalCases += b.Cases
		sum.TotalRetainers += b.Retainers
		sum.TotalInPractice += b.InPractice
	}
	if sum.TotalLeads > 0 {
		sum.AvgCPL = utils.Round2(sum.TotalSpend / float64(sum.TotalLeads))
		sum.ConversionRate = utils.Round2(float64(sum.TotalRetainers) / float64(sum.TotalLeads) * 100)
	}
	if sum.TotalCases > 0 {
		sum.AvgCPA = utils.Round2(sum.TotalSpend / float64(sum.TotalCases))
	}
	if sum.TotalRetainers > 0 {
		sum.AvgCPR = utils.Round2(sum.TotalSpend / float64(sum.TotalRetainers))
	}
	return sum, source
}

// comparisonRange derives both windows for a named period. Month windows
// clamp to the previous month's length.
func (s *Service) comparisonRange(period, customStart, customEnd string) (curStart, curEnd, prevStart, prevEnd string) {
	const day = "2006-01-02"
	today := s.now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch period {
	case "today":
		return midnight.Format(day), midnight.Format(day),
			midnight.AddDate(0, 0, -1).Format(day), midnight.AddDate(0, 0, -1).Format(day)
	case "yesterday":
		y := midnight.AddDate(0, 0, -1)
		return y.Format(day), y.Format(day),
			y.AddDate(0, 0, -1).Format(day), y.AddDate(0, 0, -1).Format(day)
	case "week":
		offset := (int(midnight.Weekday()) + 6) % 7 // Monday start
		ws := midnight.AddDate(0, 0, -offset)
		return ws.Format(day), midnight.Format(day),
			ws.AddDate(0, 0, -7).Format(day), midnight.AddDate(0, 0, -7).Format(day)
	case "custom":
		cs, err1 := time.Parse(day, customStart)
		ce, err2 := time.Parse(day, customEnd)
		if err1 == nil && err2 == nil && !ce.Before(cs) {
			span := int(ce.Sub(cs).Hours()/24) + 1
			return cs.Format(day), ce.Format(day),
				cs.AddDate(0, 0, -span).Format(day), ce.AddDate(0, 0, -span).Format(day)
		}
	}

	// mtd (default): same elapsed span of the previous month
	ms := time.Date(midnight.Year(), midnight.Month(), 1, 0, 0, 0, 0, midnight.Location())
	pm := ms.AddDate(0, -1, 0)
	prevShape := forecast.CurrentShape(pm)
	d := midnight.Day()
	if d > prevShape.DaysInMonth {
		d = prevShape.DaysInMonth
	}
	pe := time.Date(pm.Year(), pm.Month(), d, 0, 0, 0, 0, midnight.Location())
	return ms.Format(day), midnight.Format(day), pm.Format(day), pe.Format(day)
}

package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/buckets"
	"github.com/mcordova/intake-dashboard-go/internal/forecast"
	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// TrendPoint is one day of the month-to-date trend.
type TrendPoint struct {
	Date       string           `json:"date"`
	Daily      models.MetricSet `json:"daily"`
	Cumulative models.MetricSet `json:"cumulative"`
}

// TrendResponse is the /api/forecast-daily-trend payload.
type TrendResponse struct {
	DailyData  []TrendPoint      `json:"daily_data"`
	Month      string            `json:"month"`
	DataSource models.DataSource `json:"data_source"`
	Timestamp  time.Time         `json:"timestamp"`
}

// DailyTrend breaks the current month down day by day: per-day spend,
// leads, cases and retainers plus running cumulative totals. One ranged
// fetch is grouped by date; cases count once, on the day their group's
// first converted lead arrived.
func (s *Service) DailyTrend(ctx context.Context, f models.LeadFilters, forceRefresh bool) *TrendResponse {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := monthStart.Format("2006-01-02")
	end := today.Format("2006-01-02")

	key := fmt.Sprintf("trend|%s|%v|%v|%v", now.Format("2006-01"), f.IncludeSpam, f.IncludeAbandoned, f.IncludeDuplicate)
	if !forceRefresh {
		if v, ok := s.cache.Get(key); ok {
			if resp, ok := v.(*TrendResponse); ok {
				return resp
			}
		}
	}

	campaigns, leads, source := s.fetch(ctx, start, end, defaultLeadLimit, f, false)

	daily := make(map[string]*models.MetricSet)
	at := func(d string) *models.MetricSet {
		m := daily[d]
		if m == nil {
			m = &models.MetricSet{}
			daily[d] = m
		}
		return m
	}

	for _, c := range campaigns {
		at(c.Date.Format("2006-01-02")).Spend += c.Cost
	}

	groups := buckets.CaseGroups(leads)
	sorted := make([]models.Lead, len(leads))
	copy(sorted, leads)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	seenCases := make(map[string]struct{})
	for _, l := range sorted {
		d := start
		if !l.CreatedAt.IsZero() {
			d = l.CreatedAt.Format("2006-01-02")
		}
		day := at(d)
		day.Leads++
		if l.InPractice && l.Converted {
			day.Retainers++
			caseID := groups[l.ID]
			if caseID == "" {
				caseID = "unknown_" + l.ID
			}
			if _, dup := seenCases[caseID]; !dup {
				seenCases[caseID] = struct{}{}
				day.Cases++
			}
		}
	}

	resp := &TrendResponse{
		DailyData:  []TrendPoint{},
		Month:      now.Format("2006-01"),
		DataSource: source,
		Timestamp:  now,
	}
	shape := forecast.CurrentShape(now)
	var cum models.MetricSet
	for d := 1; d <= now.Day() && d <= shape.DaysInMonth; d++ {
		date := time.Date(now.Year(), now.Month(), d, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		var dayVals models.MetricSet
		if m := daily[date]; m != nil {
			dayVals = *m
		}
		cum.Add(dayVals)
		resp.DailyData = append(resp.DailyData, TrendPoint{Date: date, Daily: dayVals, Cumulative: cum})
	}

	s.cache.Set(key, resp)
	return resp
}

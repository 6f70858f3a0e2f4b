package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/demo"
	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

// AnnualResponse is the /api/annual-data payload.
type AnnualResponse struct {
	Year       int                        `json:"year"`
	Months     []models.MonthData         `json:"months"`
	Summary    models.AnnualSummary       `json:"summary"`
	Analysis   models.PerformanceAnalysis `json:"analysis"`
	DataSource models.DataSource          `json:"data_source"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// Annual builds a month-by-month breakdown of the requested year up to
// the current month, with future months present but empty.
func (s *Service) Annual(ctx context.Context, year int, f models.LeadFilters, forceRefresh bool) *AnnualResponse {
	now := s.now()
	if year <= 0 {
		year = now.Year()
	}

	key := fmt.Sprintf("annual|%d|%v|%v|%v", year, f.IncludeSpam, f.IncludeAbandoned, f.IncludeDuplicate)
	if !forceRefresh {
		if v, ok := s.cache.Get(key); ok {
			if resp, ok := v.(*AnnualResponse); ok {
				return resp
			}
		}
	}

	currentMonth := 12
	if year == now.Year() {
		currentMonth = int(now.Month())
	} else if year > now.Year() {
		currentMonth = 0
	}

	resp := &AnnualResponse{Year: year, Timestamp: now, DataSource: models.SourceDemo}
	var sawLive, sawPartial, sawDemo bool
	for m := 1; m <= 12; m++ {
		md := models.MonthData{
			Month:     time.Month(m).String(),
			MonthNum:  m,
			IsCurrent: m == currentMonth && year == now.Year(),
			IsFuture:  m > currentMonth,
		}
		if !md.IsFuture {
			switch s.monthSummary(ctx, year, m, f, &md) {
			case models.SourceLive:
				sawLive = true
			case models.SourcePartial:
				sawPartial = true
			default:
				sawDemo = true
			}
		}
		resp.Months = append(resp.Months, md)
	}
	// A year mixing live and demo months is only partially backed by
	// upstream data.
	switch {
	case sawPartial, sawLive && sawDemo:
		resp.DataSource = models.SourcePartial
	case sawLive:
		resp.DataSource = models.SourceLive
	}

	resp.Summary = summarizeYear(resp.Months)
	resp.Analysis = analyzePerformance(resp.Months, currentMonth)

	s.cache.SetTTL(key, resp, pacingCacheTTL)
	return resp
}

// monthSummary fills md.Summary for one elapsed month and reports what
// source served it.
func (s *Service) monthSummary(ctx context.Context, year, month int, f models.LeadFilters, md *models.MonthData) models.DataSource {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	campaigns, leads, source := s.fetch(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"), annualLeadLimit, f, false)
	if source == models.SourceDemo {
		md.Summary = demo.MonthlySummary(time.Month(month))
		return source
	}

	res := s.mapper.Process(campaigns, leads)
	sum := models.MonthSummary{}
	for _, b := range res.Buckets {
		sum.Spend += b.Cost
		sum.Leads += b.Leads
		sum.Cases += b.Cases
		sum.Retainers += b.TotalRetainers
		sum.InPractice += b.InPractice
		sum.Unqualified += b.Unqualified
	}
	if sum.Leads > 0 {
		sum.CPL = utils.Round2(sum.Spend / float64(sum.Leads))
		sum.ConversionRate = utils.Round2(float64(sum.Retainers) / float64(sum.Leads) * 100)
	}
	if sum.Cases > 0 {
		sum.CPA = utils.Round2(sum.Spend / float64(sum.Cases))
	}
	if sum.Retainers > 0 {
		sum.CPR = utils.Round2(sum.Spend / float64(sum.Retainers))
	}
	md.Summary = sum
	md.Buckets = res.Buckets
	return source
}

func summarizeYear(months []models.MonthData) models.AnnualSummary {
	sum := models.AnnualSummary{}
	for _, md := range months {
		if md.IsFuture {
			continue
		}
		sum.TotalSpend += md.Summary.Spend
		sum.TotalLeads += md.Summary.Leads
		sum.TotalCases += md.Summary.Cases
		sum.TotalRetainers += md.Summary.Retainers
		sum.TotalInPractice += md.Summary.InPractice
		sum.TotalUnqualified += md.Summary.Unqualified
	}
	if sum.TotalLeads > 0 {
		sum.AvgCPL = utils.Round2(sum.TotalSpend / float64(sum.TotalLeads))
		sum.AvgConversionRate = utils.Round2(float64(sum.TotalRetainers) / float64(sum.TotalLeads) * 100)
	}
	if sum.TotalCases > 0 {
		sum.AvgCPA = utils.Round2(sum.TotalSpend / float64(sum.TotalCases))
	}
	if sum.TotalRetainers > 0 {
		sum.AvgCPR = utils.Round2(sum.TotalSpend / float64(sum.TotalRetainers))
	}
	return sum
}

// analyzePerformance compares fully elapsed months only. The current
// month is excluded since a partial month skews every ratio.
func analyzePerformance(months []models.MonthData, currentMonth int) models.PerformanceAnalysis {
	a := models.PerformanceAnalysis{}
	var past []models.MonthData
	for _, md := range months {
		if md.MonthNum < currentMonth && md.Summary.Leads > 0 {
			past = append(past, md)
		}
	}
	if len(past) == 0 {
		return a
	}

	for i := range past {
		md := past[i]
		a.AvgMonthlySpend += md.Summary.Spend
		a.AvgMonthlyLeads += float64(md.Summary.Leads)
		a.AvgMonthlyRetainers += float64(md.Summary.Retainers)

		if a.BestCPLMonth == nil || (md.Summary.CPL > 0 && md.Summary.CPL < a.BestCPLMonth.Summary.CPL) {
			a.BestCPLMonth = &past[i]
		}
		if a.BestConversionMonth == nil || md.Summary.ConversionRate > a.BestConversionMonth.Summary.ConversionRate {
			a.BestConversionMonth = &past[i]
		}
		if a.WorstConversion == nil || md.Summary.ConversionRate < a.WorstConversion.Summary.ConversionRate {
			a.WorstConversion = &past[i]
		}
		if a.HighestVolumeMonth == nil || md.Summary.Leads > a.HighestVolumeMonth.Summary.Leads {
			a.HighestVolumeMonth = &past[i]
		}
	}
	n := float64(len(past))
	a.AvgMonthlySpend = utils.Round2(a.AvgMonthlySpend / n)
	a.AvgMonthlyLeads = utils.Round2(a.AvgMonthlyLeads / n)
	a.AvgMonthlyRetainers = utils.Round2(a.AvgMonthlyRetainers / n)
	return a
}

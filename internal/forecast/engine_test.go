package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

func TestRecomputeDailyTargets(t *testing.T) {
	shape := ShapeOf(2025, time.September) // 22 weekdays, 8 weekend days

	tgt := &models.MetricTarget{MonthlyTotal: 1500000}
	RecomputeDailyTargets(tgt, shape)

	assert.Equal(t, math.Round(1500000*0.7/22), tgt.WeekdayDaily)
	assert.Equal(t, math.Round(1500000*0.3/8), tgt.WeekendDaily)

	// the splits reassemble the monthly total within rounding tolerance
	total := tgt.WeekdayDaily*float64(shape.Weekdays) + tgt.WeekendDaily*float64(shape.WeekendDays)
	assert.InDelta(t, 1500000, total, float64(shape.Weekdays+shape.WeekendDays))
}

func TestRecomputeDailyTargetsZeroCounts(t *testing.T) {
	tgt := &models.MetricTarget{MonthlyTotal: 900, WeekdayDaily: 5, WeekendDaily: 5}
	RecomputeDailyTargets(tgt, MonthShape{})
	assert.Zero(t, tgt.WeekdayDaily)
	assert.Zero(t, tgt.WeekendDaily)
}

func TestApplyConversionRates(t *testing.T) {
	shape := ShapeOf(2025, time.September)
	s := models.DefaultForecastSettings()
	s.LeadToCaseRate = 22
	s.LeadToRetainerRate = 25
	s.Target(models.RegionCA, models.MetricLeads).MonthlyTotal = 1000

	ApplyConversionRates(s, shape)
	assert.Equal(t, float64(220), s.Target(models.RegionCA, models.MetricCases).MonthlyTotal)
	assert.Equal(t, float64(250), s.Target(models.RegionCA, models.MetricRetainers).MonthlyTotal)

	// every region follows its own leads total exactly
	for _, r := range models.Regions {
		leads := s.Target(r, models.MetricLeads).MonthlyTotal
		assert.Equal(t, math.Round(leads*22/100), s.Target(r, models.MetricCases).MonthlyTotal, "region %s", r)
		assert.Equal(t, math.Round(leads*25/100), s.Target(r, models.MetricRetainers).MonthlyTotal, "region %s", r)
	}

	// raising the case rate recomputes totals and splits proportionally
	prevDaily := s.Target(models.RegionCA, models.MetricCases).WeekdayDaily
	s.LeadToCaseRate = 30
	ApplyConversionRates(s, shape)
	caseTarget := s.Target(models.RegionCA, models.MetricCases)
	assert.Equal(t, float64(300), caseTarget.MonthlyTotal)
	assert.Greater(t, caseTarget.WeekdayDaily, prevDaily)
	assert.Equal(t, math.Round(300*0.7/float64(shape.Weekdays)), caseTarget.WeekdayDaily)
}

func TestStatusTable(t *testing.T) {
	tests := []struct {
		actual, expected float64
		want             models.PacingStatus
	}{
		{50, 40, models.StatusAhead},
		{50, 40.0001, models.StatusOnTrack},
		{40, 40, models.StatusOnTrack},
		{35, 40, models.StatusSlightlyBehind},
		{30, 40, models.StatusSlightlyBehind}, // diff == -10 boundary
		{20, 40, models.StatusBehind},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusFor(tc.actual, tc.expected), "actual=%v expected=%v", tc.actual, tc.expected)
	}
}

func TestComputeSnapshotEndToEnd(t *testing.T) {
	s := &models.ForecastSettings{}
	s.Target(models.RegionCA, models.MetricLeads).MonthlyTotal = 1000
	actuals := map[models.Region]models.MetricSet{
		models.RegionCA: {Leads: 300},
	}

	snap := ComputeSnapshot(s, actuals, 10, 30)
	leads := snap.Metrics[models.MetricLeads]

	assert.InDelta(t, 33.333, leads.ExpectedPct, 0.001)
	assert.InDelta(t, 30, leads.ProgressPct, 0.001)
	assert.Equal(t, models.StatusSlightlyBehind, leads.Status) // diff -3.3
	assert.InDelta(t, 30, leads.DailyAverage, 0.001)
	assert.InDelta(t, 35, leads.RequiredDaily, 0.001) // (1000-300)/20
	assert.InDelta(t, 900, leads.Projected, 0.001)    // 300 + 30*20
}

func TestComputeSnapshotIdempotent(t *testing.T) {
	s := models.DefaultForecastSettings()
	RecomputeAll(s, ShapeOf(2025, time.September))
	actuals := map[models.Region]models.MetricSet{
		models.RegionCA: {Spend: 450000, Leads: 650, Cases: 140, Retainers: 160},
		models.RegionAZ: {Spend: 200000, Leads: 180, Cases: 40, Retainers: 45},
	}

	a := ComputeSnapshot(s, actuals, 12, 30)
	b := ComputeSnapshot(s, actuals, 12, 30)
	require.Equal(t, a, b)
}

func TestComputeSnapshotZeroGuards(t *testing.T) {
	// zero targets, zero elapsed days, zero remaining days: nothing may
	// come out as NaN or Inf
	s := &models.ForecastSettings{}
	snap := ComputeSnapshot(s, nil, 0, 0)
	for m, mp := range snap.Metrics {
		for name, v := range map[string]float64{
			"progress": mp.ProgressPct, "expected": mp.ExpectedPct,
			"daily": mp.DailyAverage, "required": mp.RequiredDaily, "projected": mp.Projected,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s/%s", m, name)
			assert.Zero(t, v, "%s/%s", m, name)
		}
	}
	assert.Empty(t, snap.Insights)
}

func TestRequiredDailyNeverNegative(t *testing.T) {
	s := &models.ForecastSettings{}
	s.Target(models.RegionCA, models.MetricSpend).MonthlyTotal = 1000
	actuals := map[models.Region]models.MetricSet{
		models.RegionCA: {Spend: 5000}, // already past target
	}
	snap := ComputeSnapshot(s, actuals, 10, 30)
	assert.Zero(t, snap.Metrics[models.MetricSpend].RequiredDaily)
}

func TestInsightsDeterministicOrder(t *testing.T) {
	s := models.DefaultForecastSettings()
	// pace CA way ahead on spend and leads to trip several insights at once
	actuals := map[models.Region]models.MetricSet{
		models.RegionCA: {Spend: 1400000, Leads: 1400},
	}
	a := ComputeSnapshot(s, actuals, 10, 30)
	b := ComputeSnapshot(s, actuals, 10, 30)
	require.Equal(t, a.Insights, b.Insights)
	assert.NotEmpty(t, a.Insights)

	// over-spend warning is always evaluated first
	assert.Contains(t, a.Insights[0], "Projected spend")
}

func TestInsightsSkipRegionsWithoutSpendTarget(t *testing.T) {
	// AZ has no spend target configured, so its 0% progress is not a
	// divergence from the expected progress line.
	s := &models.ForecastSettings{}
	s.Target(models.RegionCA, models.MetricSpend).MonthlyTotal = 1000000
	actuals := map[models.Region]models.MetricSet{
		models.RegionCA: {Spend: 300000},
	}

	snap := ComputeSnapshot(s, actuals, 9, 30)
	for _, in := range snap.Insights {
		assert.NotContains(t, in, "Arizona")
	}
}

func TestInsightsRegionDivergence(t *testing.T) {
	s := models.DefaultForecastSettings()
	actuals := map[models.Region]models.MetricSet{
		// 50% of CA spend target at 30% of the month: 20 points ahead
		models.RegionCA: {Spend: 750000, Leads: 360},
	}
	snap := ComputeSnapshot(s, actuals, 9, 30)

	found := false
	for _, in := range snap.Insights {
		if in == "" {
			continue
		}
		if assert.NotContains(t, in, "NaN") && assert.NotContains(t, in, "Inf") {
			if len(in) > 10 && in[:10] == "California" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a California divergence insight, got %v", snap.Insights)
}

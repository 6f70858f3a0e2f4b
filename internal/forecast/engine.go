// Package forecast implements the pacing and forecasting engine: monthly
// target allocation, progress classification, end-of-month projection and
// advisory insight generation. Every function here is pure arithmetic over
// small in-memory aggregates; all zero divisors short-circuit to 0.
package forecast

import (
	"math"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// weekday share of a monthly target; the weekend gets the remainder.
const weekdayShare = 0.7

// RecomputeDailyTargets rebuilds the weekday/weekend daily splits from the
// authoritative monthly total. A month with no weekday (or weekend) dates
// leaves the corresponding split at 0.
func RecomputeDailyTargets(t *models.MetricTarget, shape MonthShape) {
	t.WeekdayDaily = 0
	t.WeekendDaily = 0
	if shape.Weekdays > 0 {
		t.WeekdayDaily = math.Round(t.MonthlyTotal * weekdayShare / float64(shape.Weekdays))
	}
	if shape.WeekendDays > 0 {
		t.WeekendDaily = math.Round(t.MonthlyTotal * (1 - weekdayShare) / float64(shape.WeekendDays))
	}
}

// ApplyConversionRates rederives every region's case and retainer monthly
// totals from its leads total and the two conversion-rate percentages, then
// recomputes the affected daily splits.
func ApplyConversionRates(s *models.ForecastSettings, shape MonthShape) {
	for _, r := range models.Regions {
		leads := s.Target(r, models.MetricLeads).MonthlyTotal

		cases := s.Target(r, models.MetricCases)
		cases.MonthlyTotal = math.Round(leads * s.LeadToCaseRate / 100)
		RecomputeDailyTargets(cases, shape)

		retainers := s.Target(r, models.MetricRetainers)
		retainers.MonthlyTotal = math.Round(leads * s.LeadToRetainerRate / 100)
		RecomputeDailyTargets(retainers, shape)
	}
}

// RecomputeRegion rederives one region after a direct edit: conversion-rate
// propagation plus fresh daily splits for all four metrics.
func RecomputeRegion(s *models.ForecastSettings, r models.Region, shape MonthShape) {
	leads := s.Target(r, models.MetricLeads).MonthlyTotal
	s.Target(r, models.MetricCases).MonthlyTotal = math.Round(leads * s.LeadToCaseRate / 100)
	s.Target(r, models.MetricRetainers).MonthlyTotal = math.Round(leads * s.LeadToRetainerRate / 100)
	for _, m := range models.Metrics {
		RecomputeDailyTargets(s.Target(r, m), shape)
	}
}

// RecomputeAll refreshes daily splits for every region and metric.
func RecomputeAll(s *models.ForecastSettings, shape MonthShape) {
	ApplyConversionRates(s, shape)
	for _, r := range models.Regions {
		for _, m := range models.Metrics {
			RecomputeDailyTargets(s.Target(r, m), shape)
		}
	}
}

// StatusFor classifies progress by the gap between actual and expected
// progress percentages.
func StatusFor(actualPct, expectedPct float64) models.PacingStatus {
	diff := actualPct - expectedPct
	switch {
	case diff >= 10:
		return models.StatusAhead
	case diff >= 0:
		return models.StatusOnTrack
	case diff >= -10:
		return models.StatusSlightlyBehind
	default:
		return models.StatusBehind
	}
}

// ComputeSnapshot derives the aggregate pacing state for the current
// calendar position. It is a pure function of its inputs: calling it twice
// with unchanged arguments yields identical output.
func ComputeSnapshot(s *models.ForecastSettings, actuals map[models.Region]models.MetricSet, day, daysInMonth int) models.PacingSnapshot {
	elapsed, remaining, pct := Position(day, daysInMonth)

	snap := models.PacingSnapshot{
		Metrics: make(map[models.Metric]models.MetricPacing, len(models.Metrics)),
		Time: models.TimeMetrics{
			DaysElapsed:     elapsed,
			DaysRemaining:   remaining,
			DaysInMonth:     daysInMonth,
			PercentComplete: pct,
		},
	}

	for _, m := range models.Metrics {
		var target, actual float64
		for _, r := range models.Regions {
			target += targetTotal(s, r, m)
			actual += actuals[r].Value(m)
		}

		mp := models.MetricPacing{
			Target:       target,
			Actual:       actual,
			ProgressPct:  safePct(actual, target),
			ExpectedPct:  pct,
			DailyAverage: safeDiv(actual, float64(elapsed)),
		}
		mp.Status = StatusFor(mp.ProgressPct, pct)
		if remaining > 0 {
			mp.RequiredDaily = math.Max(0, (target-actual)/float64(remaining))
		}
		mp.Projected = actual + mp.DailyAverage*float64(remaining)
		snap.Metrics[m] = mp
	}

	snap.Insights = insights(s, snap, actuals)
	return snap
}

func targetTotal(s *models.ForecastSettings, r models.Region, m models.Metric) float64 {
	rt, ok := s.Targets[r]
	if !ok {
		return 0
	}
	t, ok := rt[m]
	if !ok || t == nil {
		return 0
	}
	return t.MonthlyTotal
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func safePct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

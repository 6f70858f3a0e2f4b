package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// ComputeProjections builds the full-month outlook per region plus the
// aggregate snapshot and ranked recommendations. Pure and idempotent, like
// ComputeSnapshot.
func ComputeProjections(s *models.ForecastSettings, actuals map[models.Region]models.MetricSet, day, daysInMonth int) models.Projections {
	elapsed, remaining, pct := Position(day, daysInMonth)

	snap := ComputeSnapshot(s, actuals, day, daysInMonth)
	p := models.Projections{
		States:   make(map[models.Region]*models.RegionProjection, len(models.Regions)),
		Time:     snap.Time,
		Snapshot: &snap,
	}

	for _, r := range models.Regions {
		current := actuals[r]
		rp := &models.RegionProjection{Current: current}

		for _, m := range models.Metrics {
			target := targetTotal(s, r, m)
			actual := current.Value(m)

			daily := safeDiv(actual, float64(elapsed))
			projected := daily * float64(daysInMonth)
			variance := projected - target

			rp.Target.Set(m, target)
			rp.DailyRates.Set(m, daily)
			rp.Projected.Set(m, projected)
			rp.Variance.Set(m, variance)
			rp.VariancePercent.Set(m, safePct(variance, target))
			if remaining > 0 {
				rp.RequiredDaily.Set(m, math.Max(0, (target-actual)/float64(remaining)))
			}
		}

		rp.Metrics = models.ProjectionMetrics{
			CurrentCPL:        safeDiv(current.Spend, current.Leads),
			ProjectedCPL:      safeDiv(rp.Projected.Spend, rp.Projected.Leads),
			TargetCPL:         s.CPLTargets[r],
			CurrentConversion: safePct(current.Retainers, current.Leads),
			TargetConversion:  s.LeadToRetainerRate,
		}
		rp.Status = StatusFor(safePct(current.Spend, rp.Target.Spend), pct)

		p.States[r] = rp
		p.Totals.Current.Add(rp.Current)
		p.Totals.Projected.Add(rp.Projected)
		p.Totals.Target.Add(rp.Target)
		p.Totals.Variance.Add(rp.Variance)
	}

	for _, m := range models.Metrics {
		p.Totals.VariancePercent.Set(m, safePct(p.Totals.Variance.Value(m), p.Totals.Target.Value(m)))
	}

	p.Recommendations = recommendations(p)
	return p
}

var severityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// recommendations emits the advisory list in region order, then ranks by
// severity. The sort is stable so equal severities keep their emit order.
func recommendations(p models.Projections) []models.Recommendation {
	recs := []models.Recommendation{}
	add := func(r models.Region, typ, severity, msg string) {
		recs = append(recs, models.Recommendation{Region: r, Type: typ, Severity: severity, Message: msg})
	}

	for _, r := range models.Regions {
		rp := p.States[r]
		if rp == nil {
			continue
		}

		if v := rp.VariancePercent.Spend; v < -10 {
			add(r, "spend", "high", fmt.Sprintf(
				"%s is %.1f%% under spend target. Consider increasing daily budget by $%.0f/day.",
				r, -v, rp.RequiredDaily.Spend))
		} else if v > 10 {
			add(r, "spend", "medium", fmt.Sprintf(
				"%s is %.1f%% over spend target. Consider reducing daily budget.", r, v))
		}

		if rp.VariancePercent.Leads < -10 {
			add(r, "leads", "high", fmt.Sprintf(
				"%s needs %.0f leads/day to hit target (current: %.1f/day).",
				r, rp.RequiredDaily.Leads, rp.DailyRates.Leads))
		}

		if rp.Metrics.TargetCPL > 0 && rp.Metrics.CurrentCPL > rp.Metrics.TargetCPL*1.2 {
			add(r, "efficiency", "medium", fmt.Sprintf(
				"%s CPL is $%.0f (target: $%.0f). Review campaign targeting and quality.",
				r, rp.Metrics.CurrentCPL, rp.Metrics.TargetCPL))
		}

		if rp.Metrics.CurrentCPL > 0 && rp.Metrics.CurrentConversion < rp.Metrics.TargetConversion*0.8 {
			add(r, "conversion", "medium", fmt.Sprintf(
				"%s conversion rate is %.1f%% (target: %.1f%%). Review lead quality and intake process.",
				r, rp.Metrics.CurrentConversion, rp.Metrics.TargetConversion))
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return severityRank[recs[i].Severity] < severityRank[recs[j].Severity]
	})
	if len(recs) > 10 {
		recs = recs[:10]
	}
	return recs
}

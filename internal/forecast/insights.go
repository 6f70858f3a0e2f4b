package forecast

import (
	"fmt"
	"math"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// Regions whose spend pacing is individually called out when it diverges
// from the expected progress line.
var watchedRegions = []models.Region{models.RegionCA, models.RegionAZ}

// insights emits advisory messages for a computed snapshot. Evaluation
// order is fixed so identical inputs always produce the same list.
func insights(s *models.ForecastSettings, snap models.PacingSnapshot, actuals map[models.Region]models.MetricSet) []string {
	out := []string{}

	spend := snap.Metrics[models.MetricSpend]
	leads := snap.Metrics[models.MetricLeads]

	if spend.Target > 0 {
		overPct := (spend.Projected - spend.Target) / spend.Target * 100
		if overPct > 10 {
			out = append(out, fmt.Sprintf(
				"Projected spend of $%.0f is %.1f%% over the $%.0f monthly target. Consider reducing daily budgets.",
				spend.Projected, overPct, spend.Target))
		} else if overPct < -10 {
			out = append(out, fmt.Sprintf(
				"Projected spend of $%.0f is %.1f%% under the $%.0f monthly target. Budget is being left on the table.",
				spend.Projected, -overPct, spend.Target))
		}
	}

	if leads.RequiredDaily > 0 {
		if leads.DailyAverage > leads.RequiredDaily*1.2 {
			out = append(out, fmt.Sprintf(
				"Lead volume is outperforming: averaging %.1f leads/day against a required %.1f/day.",
				leads.DailyAverage, leads.RequiredDaily))
		} else if leads.DailyAverage < leads.RequiredDaily*0.8 {
			out = append(out, fmt.Sprintf(
				"Lead volume needs acceleration: averaging %.1f leads/day, %.1f/day required to hit target.",
				leads.DailyAverage, leads.RequiredDaily))
		}
	}

	currentCPL := safeDiv(spend.Actual, leads.Actual)
	targetCPL := safeDiv(spend.Target, leads.Target)
	if currentCPL > 0 && targetCPL > 0 && currentCPL < targetCPL*0.9 {
		out = append(out, fmt.Sprintf(
			"Cost per lead of $%.0f is beating the $%.0f target by %.1f%%.",
			currentCPL, targetCPL, (1-currentCPL/targetCPL)*100))
	}

	for _, r := range watchedRegions {
		regionTarget := targetTotal(s, r, models.MetricSpend)
		if regionTarget <= 0 {
			continue
		}
		regionProgress := safePct(actuals[r].Spend, regionTarget)
		gap := regionProgress - snap.Time.PercentComplete
		if math.Abs(gap) > 15 {
			direction := "ahead of"
			if gap < 0 {
				direction = "behind"
			}
			out = append(out, fmt.Sprintf(
				"%s spend is %.1f points %s the expected %.1f%% progress line.",
				r.DisplayName(), math.Abs(gap), direction, snap.Time.PercentComplete))
		}
	}

	return out
}

package models

// MetricTarget holds a monthly goal and its derived daily splits.
// MonthlyTotal is authoritative; the daily figures are recomputed from it
// using a 70/30 weekday/weekend allocation over the current month's calendar.
type MetricTarget struct {
	WeekdayDaily float64 `json:"weekday_daily"`
	WeekendDaily float64 `json:"weekend_daily"`
	MonthlyTotal float64 `json:"monthly_total"`
}

// ForecastSettings is the user-edited target configuration.
type ForecastSettings struct {
	Targets            map[Region]map[Metric]*MetricTarget `json:"targets"`
	LeadToCaseRate     float64                             `json:"lead_to_case_rate"`
	LeadToRetainerRate float64                             `json:"lead_to_retainer_rate"`
	CPLTargets         map[Region]float64                  `json:"cpl_targets"`
}

// DefaultForecastSettings returns the shipped target configuration.
func DefaultForecastSettings() *ForecastSettings {
	mk := func(spend, leads, cases, retainers float64) map[Metric]*MetricTarget {
		return map[Metric]*MetricTarget{
			MetricSpend:     {MonthlyTotal: spend},
			MetricLeads:     {MonthlyTotal: leads},
			MetricCases:     {MonthlyTotal: cases},
			MetricRetainers: {MonthlyTotal: retainers},
		}
	}
	return &ForecastSettings{
		Targets: map[Region]map[Metric]*MetricTarget{
			RegionCA: mk(1500000, 1200, 240, 300),
			RegionAZ: mk(500000, 400, 80, 100),
			RegionGA: mk(300000, 240, 48, 60),
			RegionTX: mk(200000, 160, 32, 40),
		},
		LeadToCaseRate:     20,
		LeadToRetainerRate: 25,
		CPLTargets: map[Region]float64{
			RegionCA: 1250,
			RegionAZ: 1250,
			RegionGA: 1250,
			RegionTX: 1250,
		},
	}
}

// Target returns the metric target for region/metric, allocating it if
// absent. Nil entries, which a decoded JSON payload can carry, are treated
// the same as missing ones.
func (s *ForecastSettings) Target(r Region, m Metric) *MetricTarget {
	if s.Targets == nil {
		s.Targets = make(map[Region]map[Metric]*MetricTarget)
	}
	rt := s.Targets[r]
	if rt == nil {
		rt = make(map[Metric]*MetricTarget)
		s.Targets[r] = rt
	}
	t := rt[m]
	if t == nil {
		t = &MetricTarget{}
		rt[m] = t
	}
	return t
}

// MetricSet carries one value per tracked metric.
type MetricSet struct {
	Spend     float64 `json:"spend"`
	Leads     float64 `json:"leads"`
	Cases     float64 `json:"cases"`
	Retainers float64 `json:"retainers"`
}

func (s MetricSet) Value(m Metric) float64 {
	switch m {
	case MetricSpend:
		return s.Spend
	case MetricLeads:
		return s.Leads
	case MetricCases:
		return s.Cases
	case MetricRetainers:
		return s.Retainers
	}
	return 0
}

func (s *MetricSet) Set(m Metric, v float64) {
	switch m {
	case MetricSpend:
		s.Spend = v
	case MetricLeads:
		s.Leads = v
	case MetricCases:
		s.Cases = v
	case MetricRetainers:
		s.Retainers = v
	}
}

func (s *MetricSet) Add(o MetricSet) {
	s.Spend += o.Spend
	s.Leads += o.Leads
	s.Cases += o.Cases
	s.Retainers += o.Retainers
}

// RegionPacing is a region's month-to-date actuals plus derived ratios.
type RegionPacing struct {
	MetricSet
	CPL            float64 `json:"cpl"`
	ConversionRate float64 `json:"conversion_rate"`
}

// PacingStatus classifies actual vs expected progress.
type PacingStatus string

const (
	StatusAhead          PacingStatus = "Ahead of target"
	StatusOnTrack        PacingStatus = "On track"
	StatusSlightlyBehind PacingStatus = "Slightly behind"
	StatusBehind         PacingStatus = "Behind target"
)

// MetricPacing is the derived pacing state for one metric, aggregated
// across all regions.
type MetricPacing struct {
	Target        float64      `json:"target"`
	Actual        float64      `json:"actual"`
	ProgressPct   float64      `json:"progress_pct"`
	ExpectedPct   float64      `json:"expected_pct"`
	Status        PacingStatus `json:"status"`
	DailyAverage  float64      `json:"daily_average"`
	RequiredDaily float64      `json:"required_daily"`
	Projected     float64      `json:"projected"`
}

// TimeMetrics describes the calendar position a snapshot was computed at.
type TimeMetrics struct {
	DaysElapsed     int     `json:"days_elapsed"`
	DaysRemaining   int     `json:"days_remaining"`
	DaysInMonth     int     `json:"days_in_month"`
	PercentComplete float64 `json:"percent_complete"`
}

// PacingSnapshot is pure derived state, rebuilt from scratch whenever
// targets or actuals change. It owns no identity and is never persisted.
type PacingSnapshot struct {
	Metrics  map[Metric]MetricPacing `json:"metrics"`
	Time     TimeMetrics             `json:"time_metrics"`
	Insights []string                `json:"insights"`
}

// ProjectionMetrics compares realized efficiency against targets.
type ProjectionMetrics struct {
	CurrentCPL        float64 `json:"current_cpl"`
	ProjectedCPL      float64 `json:"projected_cpl"`
	TargetCPL         float64 `json:"target_cpl"`
	CurrentConversion float64 `json:"current_conversion"`
	TargetConversion  float64 `json:"target_conversion"`
}

// RegionProjection is the full-month outlook for a single region.
type RegionProjection struct {
	Current         MetricSet         `json:"current"`
	Projected       MetricSet         `json:"projected"`
	Target          MetricSet         `json:"target"`
	Variance        MetricSet         `json:"variance"`
	VariancePercent MetricSet         `json:"variance_percent"`
	DailyRates      MetricSet         `json:"daily_rates"`
	RequiredDaily   MetricSet         `json:"required_daily"`
	Metrics         ProjectionMetrics `json:"metrics"`
	Status          PacingStatus      `json:"status"`
}

// Recommendation is an advisory message; never authoritative.
type Recommendation struct {
	Region   Region `json:"state"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ProjectionTotals aggregates projections across regions.
type ProjectionTotals struct {
	Current         MetricSet `json:"current"`
	Projected       MetricSet `json:"projected"`
	Target          MetricSet `json:"target"`
	Variance        MetricSet `json:"variance"`
	VariancePercent MetricSet `json:"variance_percent"`
}

// Projections is the forecast endpoint payload.
type Projections struct {
	States          map[Region]*RegionProjection `json:"states"`
	Totals          ProjectionTotals             `json:"totals"`
	Time            TimeMetrics                  `json:"time_metrics"`
	Snapshot        *PacingSnapshot              `json:"snapshot"`
	Recommendations []Recommendation             `json:"recommendations"`
}

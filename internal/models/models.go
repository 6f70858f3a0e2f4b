package models

import "time"

// Region is a two-letter jurisdiction code.
type Region string

const (
	RegionCA Region = "CA"
	RegionAZ Region = "AZ"
	RegionGA Region = "GA"
	RegionTX Region = "TX"
)

// Regions lists every tracked jurisdiction in display order.
var Regions = []Region{RegionCA, RegionAZ, RegionGA, RegionTX}

var regionNames = map[Region]string{
	RegionCA: "California",
	RegionAZ: "Arizona",
	RegionGA: "Georgia",
	RegionTX: "Texas",
}

func (r Region) DisplayName() string {
	if n, ok := regionNames[r]; ok {
		return n
	}
	return string(r)
}

func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

// Metric identifies one of the four tracked funnel figures.
type Metric string

const (
	MetricSpend     Metric = "spend"
	MetricLeads     Metric = "leads"
	MetricCases     Metric = "cases"
	MetricRetainers Metric = "retainers"
)

var Metrics = []Metric{MetricSpend, MetricLeads, MetricCases, MetricRetainers}

// DataSource tags every response with where its figures came from.
type DataSource string

const (
	SourceLive        DataSource = "Live"
	SourcePartial     DataSource = "Partial"
	SourceDemo        DataSource = "Demo"
	SourceUnavailable DataSource = "Unavailable"
)

// Campaign is an ad campaign row as returned by the ads API.
type Campaign struct {
	ID           string    `json:"campaign_id"`
	Name         string    `json:"name"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Cost         float64   `json:"cost"`
	IsLSA        bool      `json:"is_lsa"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
}

// Lead is a CRM intake record.
type Lead struct {
	ID              string    `json:"id"`
	Bucket          string    `json:"bucket"`
	UTMCampaign     string    `json:"utm_campaign"`
	CaseType        string    `json:"case_type"`
	InPractice      bool      `json:"in_practice"`
	Converted       bool      `json:"is_converted"`
	Pending         bool      `json:"is_pending"`
	MatterID        string    `json:"matter_id"`
	CompanionCaseID string    `json:"companion_case_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Bucket aggregates campaigns and leads under one named grouping.
type Bucket struct {
	Name              string   `json:"name"`
	State             string   `json:"state"`
	Campaigns         []string `json:"campaigns"`
	Cost              float64  `json:"cost"`
	Leads             int      `json:"leads"`
	InPractice        int      `json:"inPractice"`
	Unqualified       int      `json:"unqualified"`
	Cases             int      `json:"cases"`
	Retainers         int      `json:"retainers"`
	PendingRetainers  int      `json:"pendingRetainers"`
	TotalRetainers    int      `json:"totalRetainers"`
	InPracticePercent float64  `json:"inPracticePercent"`
	UnqualifiedPct    float64  `json:"unqualifiedPercent"`
	ConversionRate    float64  `json:"conversionRate"`
	CostPerLead       float64  `json:"costPerLead"`
	CPA               float64  `json:"cpa"`
	CostPerRetainer   float64  `json:"costPerRetainer"`
}

// ExcludedCounts tallies leads filtered out by case type.
type ExcludedCounts struct {
	Spam      int `json:"spam"`
	Abandoned int `json:"abandoned"`
	Duplicate int `json:"duplicate"`
	Total     int `json:"total"`
}

// LeadFilters are the three optional exclusion toggles.
type LeadFilters struct {
	IncludeSpam      bool `json:"include_spam"`
	IncludeAbandoned bool `json:"include_abandoned"`
	IncludeDuplicate bool `json:"include_duplicate"`
}

// Preferences are per-user UI flags, all independently settable.
type Preferences struct {
	DarkMode            bool `json:"dark_mode"`
	SidebarCollapsed    bool `json:"sidebar_collapsed"`
	IncludeSpam         bool `json:"include_spam"`
	IncludeAbandoned    bool `json:"include_abandoned"`
	IncludeDuplicate    bool `json:"include_duplicate"`
	ColorCodingDisabled bool `json:"color_coding_disabled"`
}

// MonthSummary is one month's rollup for annual analytics.
type MonthSummary struct {
	Spend          float64 `json:"spend"`
	Leads          int     `json:"leads"`
	Cases          int     `json:"cases"`
	Retainers      int     `json:"retainers"`
	InPractice     int     `json:"in_practice"`
	Unqualified    int     `json:"unqualified"`
	CPL            float64 `json:"cpl"`
	CPA            float64 `json:"cpa"`
	CPR            float64 `json:"cpr"`
	ConversionRate float64 `json:"conversion_rate"`
}

// MonthData wraps a month summary with its calendar position.
type MonthData struct {
	Month     string       `json:"month"`
	MonthNum  int          `json:"month_num"`
	IsCurrent bool         `json:"is_current"`
	IsFuture  bool         `json:"is_future"`
	Summary   MonthSummary `json:"summary"`
	Buckets   []*Bucket    `json:"buckets,omitempty"`
}

// AnnualSummary totals the year to date.
type AnnualSummary struct {
	TotalSpend        float64 `json:"total_spend"`
	TotalLeads        int     `json:"total_leads"`
	TotalRetainers    int     `json:"total_retainers"`
	TotalCases        int     `json:"total_cases"`
	TotalInPractice   int     `json:"total_in_practice"`
	TotalUnqualified  int     `json:"total_unqualified"`
	AvgCPL            float64 `json:"avg_cpl"`
	AvgCPA            float64 `json:"avg_cpa"`
	AvgCPR            float64 `json:"avg_cpr"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
}

// PerformanceAnalysis highlights notable past months.
type PerformanceAnalysis struct {
	BestCPLMonth        *MonthData `json:"best_cpl_month,omitempty"`
	BestConversionMonth *MonthData `json:"best_conversion_month,omitempty"`
	HighestVolumeMonth  *MonthData `json:"highest_volume_month,omitempty"`
	WorstConversion     *MonthData `json:"worst_conversion_month,omitempty"`
	AvgMonthlySpend     float64    `json:"avg_monthly_spend"`
	AvgMonthlyLeads     float64    `json:"avg_monthly_leads"`
	AvgMonthlyRetainers float64    `json:"avg_monthly_retainers"`
}

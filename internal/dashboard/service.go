// Package dashboard assembles the API payloads: bucketed dashboard data,
// month-to-date pacing actuals, forecast projections, annual breakdowns
// and exports. Every fetch degrades to the demo dataset instead of
// failing, and every payload carries an explicit data-source tag.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/buckets"
	"github.com/mcordova/intake-dashboard-go/internal/demo"
	"github.com/mcordova/intake-dashboard-go/internal/forecast"
	"github.com/mcordova/intake-dashboard-go/internal/ingest"
	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/store"
)

const (
	defaultLeadLimit = 1000
	annualLeadLimit  = 2000
	pacingCacheTTL   = 30 * time.Minute
)

type Service struct {
	ads    *ingest.AdsClient
	crm    *ingest.CRMClient
	mapper *buckets.Mapper
	store  *store.Store
	cache  *store.Cache
	log    *slog.Logger
	now    func() time.Time
}

func NewService(ads *ingest.AdsClient, crm *ingest.CRMClient, mapper *buckets.Mapper, st *store.Store, cache *store.Cache, log *slog.Logger) *Service {
	return &Service{
		ads:    ads,
		crm:    crm,
		mapper: mapper,
		store:  st,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// StatusReport is the /api/status payload.
type StatusReport struct {
	Status             string    `json:"status"`
	GoogleAdsConnected bool      `json:"google_ads_connected"`
	GoogleAdsError     string    `json:"google_ads_error,omitempty"`
	LitifyConnected    bool      `json:"litify_connected"`
	LitifyError        string    `json:"litify_error,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// Status probes both upstreams.
func (s *Service) Status(ctx context.Context) StatusReport {
	rep := StatusReport{Status: "online", Timestamp: s.now()}
	if err := s.ads.Ping(ctx); err != nil {
		rep.GoogleAdsError = err.Error()
	} else {
		rep.GoogleAdsConnected = true
	}
	if err := s.crm.Ping(ctx); err != nil {
		rep.LitifyError = err.Error()
	} else {
		rep.LitifyConnected = true
	}
	return rep
}

// DateRange echoes the resolved query window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Params selects the dataset for dashboard and export queries.
type Params struct {
	StartDate    string
	EndDate      string
	Limit        int
	Filters      models.LeadFilters
	ForceRefresh bool
}

func (p Params) cacheKey() string {
	return fmt.Sprintf("dashboard|%s|%s|%d|%v|%v|%v",
		p.StartDate, p.EndDate, p.Limit,
		p.Filters.IncludeSpam, p.Filters.IncludeAbandoned, p.Filters.IncludeDuplicate)
}

// DashboardResponse is the /api/dashboard-data payload.
type DashboardResponse struct {
	Buckets            []*models.Bucket      `json:"buckets"`
	UnmappedCampaigns  []string              `json:"unmapped_campaigns"`
	UnmappedUTMs       []string              `json:"unmapped_utms"`
	LitifyLeads        []models.Lead         `json:"litify_leads"`
	AvailableBuckets   []string              `json:"available_buckets"`
	DataSource         models.DataSource     `json:"data_source"`
	DateRange          DateRange             `json:"date_range"`
	Filters            models.LeadFilters    `json:"filters"`
	ExcludedLeadCounts models.ExcludedCounts `json:"excluded_lead_counts"`
	Timestamp          time.Time             `json:"timestamp"`
}

// DashboardData builds the bucketed dashboard view, serving a cached copy
// when the same filter tuple was assembled recently.
func (s *Service) DashboardData(ctx context.Context, p Params) *DashboardResponse {
	if p.Limit <= 0 {
		p.Limit = defaultLeadLimit
	}
	start, end := s.resolveRange(p.StartDate, p.EndDate)

	key := p.cacheKey()
	if !p.ForceRefresh {
		if v, ok := s.cache.Get(key); ok {
			if resp, ok := v.(*DashboardResponse); ok {
				return resp
			}
		}
	}

	campaigns, leads, source := s.fetch(ctx, start, end, p.Limit, p.Filters, true)
	res := s.mapper.Process(campaigns, leads)

	resp := &DashboardResponse{
		Buckets:            res.Buckets,
		UnmappedCampaigns:  res.UnmappedCampaigns,
		UnmappedUTMs:       res.UnmappedUTMs,
		LitifyLeads:        leads,
		AvailableBuckets:   buckets.Priority,
		DataSource:         source,
		DateRange:          DateRange{Start: start, End: end},
		Filters:            p.Filters,
		ExcludedLeadCounts: res.Excluded,
		Timestamp:          s.now(),
	}
	s.cache.Set(key, resp)
	return resp
}

// PacingResponse is the /api/forecast-pacing payload.
type PacingResponse struct {
	States     map[models.Region]*models.RegionPacing `json:"states"`
	Totals     models.MetricSet                       `json:"totals"`
	DateRange  DateRange                              `json:"date_range"`
	DataSource models.DataSource                      `json:"data_source"`
	Timestamp  time.Time                              `json:"timestamp"`
}

// PacingActuals aggregates month-to-date performance per region. Spend
// follows the campaign's region; funnel counts follow the lead's region,
// with cases counted as unique companion groups.
func (s *Service) PacingActuals(ctx context.Context, startDate, endDate string, f models.LeadFilters, forceRefresh bool) *PacingResponse {
	start, end := s.resolveMonthRange(startDate, endDate)

	key := fmt.Sprintf("pacing|%s|%s|%v|%v|%v", start, end, f.IncludeSpam, f.IncludeAbandoned, f.IncludeDuplicate)
	if !forceRefresh {
		if v, ok := s.cache.Get(key); ok {
			if resp, ok := v.(*PacingResponse); ok {
				return resp
			}
		}
	}

	campaigns, leads, source := s.fetch(ctx, start, end, defaultLeadLimit, f, false)

	states := make(map[models.Region]*models.RegionPacing, len(models.Regions))
	if source == models.SourceDemo {
		// The demo lead sample is too small to pace against real monthly
		// targets, so demo pacing uses a fixed month-to-date dataset.
		for r, set := range demo.PacingActuals() {
			states[r] = &models.RegionPacing{MetricSet: set}
		}
		campaigns, leads = nil, nil
	}
	for _, r := range models.Regions {
		if states[r] == nil {
			states[r] = &models.RegionPacing{}
		}
	}

	for _, c := range campaigns {
		states[s.mapper.RegionForCampaign(c)].Spend += c.Cost
	}

	groups := buckets.CaseGroups(leads)
	casesByRegion := make(map[models.Region]map[string]struct{})
	for _, l := range leads {
		r := s.mapper.RegionForLead(l)
		st := states[r]
		st.Leads++
		if l.InPractice && l.Converted {
			st.Retainers++
			caseID := groups[l.ID]
			if caseID == "" {
				caseID = "unknown_" + l.ID
			}
			set := casesByRegion[r]
			if set == nil {
				set = make(map[string]struct{})
				casesByRegion[r] = set
			}
			set[caseID] = struct{}{}
		}
	}

	resp := &PacingResponse{
		States:     states,
		DateRange:  DateRange{Start: start, End: end},
		DataSource: source,
		Timestamp:  s.now(),
	}
	for _, r := range models.Regions {
		st := states[r]
		st.Cases = float64(len(casesByRegion[r]))
		if st.Leads > 0 {
			st.CPL = st.Spend / st.Leads
			st.ConversionRate = st.Retainers / st.Leads * 100
		}
		resp.Totals.Add(st.MetricSet)
	}

	s.cache.SetTTL(key, resp, pacingCacheTTL)
	return resp
}

// ProjectionsResponse is the /api/forecast-projections payload.
type ProjectionsResponse struct {
	models.Projections
	DataSource models.DataSource `json:"data_source"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Projections runs the pacing engine over current settings and actuals.
func (s *Service) Projections(ctx context.Context, f models.LeadFilters, forceRefresh bool) (*ProjectionsResponse, error) {
	settings, err := s.store.LoadSettings()
	if err != nil {
		return nil, err
	}

	pacing := s.PacingActuals(ctx, "", "", f, forceRefresh)
	actuals := make(map[models.Region]models.MetricSet, len(pacing.States))
	for r, st := range pacing.States {
		actuals[r] = st.MetricSet
	}

	now := s.now()
	shape := forecast.CurrentShape(now)
	p := forecast.ComputeProjections(settings, actuals, now.Day(), shape.DaysInMonth)

	return &ProjectionsResponse{
		Projections: p,
		DataSource:  pacing.DataSource,
		Timestamp:   now,
	}, nil
}

// fetch pulls both upstreams, falling back to the demo dataset when
// neither responds. The returned tag records what was actually served.
func (s *Service) fetch(ctx context.Context, start, end string, limit int, f models.LeadFilters, activeOnly bool) ([]models.Campaign, []models.Lead, models.DataSource) {
	var campaigns []models.Campaign
	var leads []models.Lead
	adsOK, crmOK := false, false

	if s.ads.Configured() {
		got, err := s.ads.FetchCampaigns(ctx, start, end, activeOnly)
		if err != nil {
			s.log.Warn("ads fetch failed", slog.String("err", err.Error()))
		} else {
			campaigns, adsOK = got, true
		}
	}
	if s.crm.Configured() {
		got, err := s.crm.FetchLeads(ctx, start, end, limit, f)
		if err != nil {
			s.log.Warn("crm fetch failed", slog.String("err", err.Error()))
		} else {
			leads, crmOK = got, true
		}
	}

	switch {
	case adsOK && crmOK:
		return campaigns, leads, models.SourceLive
	case adsOK || crmOK:
		return campaigns, leads, models.SourcePartial
	default:
		startT, err := time.Parse("2006-01-02", start)
		if err != nil {
			startT = s.now()
		}
		return demo.Campaigns(startT), demo.Leads(startT, f), models.SourceDemo
	}
}

func (s *Service) resolveRange(start, end string) (string, string) {
	today := s.now().Format("2006-01-02")
	if start == "" {
		start = today
	}
	if end == "" {
		end = today
	}
	return start, end
}

// resolveMonthRange defaults to the current calendar month.
func (s *Service) resolveMonthRange(start, end string) (string, string) {
	if start != "" && end != "" {
		return start, end
	}
	now := s.now()
	shape := forecast.CurrentShape(now)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := time.Date(now.Year(), now.Month(), shape.DaysInMonth, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

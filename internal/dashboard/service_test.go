package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcordova/intake-dashboard-go/internal/buckets"
	"github.com/mcordova/intake-dashboard-go/internal/ingest"
	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/store"
)

var testNow = time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type upstream struct {
	campaigns []map[string]any
	leads     []map[string]any
}

func (u *upstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.campaigns)
	})
	mux.HandleFunc("/leads", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.leads)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestService wires a Service against the given upstream URLs. Empty
// URLs leave that client unconfigured.
func newTestService(t *testing.T, adsURL, crmURL string) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := discardLogger()
	hc := ingest.NewHTTPClient(2 * time.Second)
	svc := NewService(
		ingest.NewAdsClient(hc, adsURL, log),
		ingest.NewCRMClient(hc, crmURL, log),
		buckets.NewMapper(nil, nil),
		st,
		store.NewCache(5*time.Minute),
		log,
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func campaignRow(id, name string, cost float64) map[string]any {
	return map[string]any{
		"date": "2025-09-05", "campaign_id": id, "name": name,
		"customer_id": "123", "customer_name": "Acct", "cost": cost, "status": "active",
	}
}

func leadRow(id, utm string, inPractice, converted bool) map[string]any {
	return map[string]any{
		"id": id, "utm_campaign": utm, "case_type": "MVA",
		"in_practice": inPractice, "is_converted": converted,
		"created_at": "2025-09-05T10:00:00Z",
	}
}

func TestStatusReportsBothUpstreams(t *testing.T) {
	up := (&upstream{}).server(t)
	svc := newTestService(t, up.URL, "")

	rep := svc.Status(context.Background())
	assert.Equal(t, "online", rep.Status)
	assert.True(t, rep.GoogleAdsConnected)
	assert.False(t, rep.LitifyConnected)
	assert.NotEmpty(t, rep.LitifyError)
}

func TestDashboardDataLiveSource(t *testing.T) {
	u := &upstream{
		campaigns: []map[string]any{
			campaignRow("c1", "CA-EN-Brand", 1000),
			campaignRow("c2", "AZ-EN-Brand", 500),
		},
		leads: []map[string]any{
			leadRow("l1", "CA-EN-Brand", true, true),
			leadRow("l2", "AZ-EN-Brand", true, false),
		},
	}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.DashboardData(context.Background(), Params{StartDate: "2025-09-01", EndDate: "2025-09-10"})
	require.NotNil(t, resp)
	assert.Equal(t, models.SourceLive, resp.DataSource)
	assert.Equal(t, "2025-09-01", resp.DateRange.Start)
	assert.Len(t, resp.Buckets, len(buckets.Priority))
	assert.Len(t, resp.LitifyLeads, 2)

	var caBrand *models.Bucket
	for _, b := range resp.Buckets {
		if b.Name == "California Brand" {
			caBrand = b
		}
	}
	require.NotNil(t, caBrand)
	assert.Equal(t, 1000.0, caBrand.Cost)
	assert.Equal(t, 1, caBrand.Leads)
}

func TestDashboardDataPartialWhenOneUpstreamDown(t *testing.T) {
	u := &upstream{campaigns: []map[string]any{campaignRow("c1", "CA-EN-Brand", 1000)}}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, "")

	resp := svc.DashboardData(context.Background(), Params{})
	assert.Equal(t, models.SourcePartial, resp.DataSource)
}

func TestDashboardDataDemoFallback(t *testing.T) {
	svc := newTestService(t, "", "")

	resp := svc.DashboardData(context.Background(), Params{})
	assert.Equal(t, models.SourceDemo, resp.DataSource)
	assert.Len(t, resp.Buckets, len(buckets.Priority))

	var totalCost float64
	var totalLeads int
	for _, b := range resp.Buckets {
		totalCost += b.Cost
		totalLeads += b.Leads
	}
	assert.Greater(t, totalCost, 0.0)
	assert.Greater(t, totalLeads, 0)
}

func TestDashboardDataCaching(t *testing.T) {
	u := &upstream{campaigns: []map[string]any{campaignRow("c1", "CA-EN-Brand", 1000)}}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	first := svc.DashboardData(context.Background(), Params{StartDate: "2025-09-01", EndDate: "2025-09-10"})
	u.campaigns = append(u.campaigns, campaignRow("c2", "AZ-EN-Brand", 500))

	cached := svc.DashboardData(context.Background(), Params{StartDate: "2025-09-01", EndDate: "2025-09-10"})
	assert.Same(t, first, cached)

	fresh := svc.DashboardData(context.Background(), Params{StartDate: "2025-09-01", EndDate: "2025-09-10", ForceRefresh: true})
	assert.NotSame(t, first, fresh)
}

func TestPacingActualsPerRegion(t *testing.T) {
	u := &upstream{
		campaigns: []map[string]any{
			campaignRow("c1", "CA-EN-Brand", 9000),
			campaignRow("c2", "AZ-EN-Brand", 3000),
		},
		leads: []map[string]any{
			leadRow("l1", "CA-EN-Brand", true, true),
			leadRow("l2", "CA-EN-Brand", true, true),
			leadRow("l3", "CA-EN-Brand", true, false),
			leadRow("l4", "AZ-EN-Brand", true, true),
		},
	}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.PacingActuals(context.Background(), "", "", models.LeadFilters{}, false)
	require.NotNil(t, resp)
	assert.Equal(t, models.SourceLive, resp.DataSource)
	assert.Equal(t, "2025-09-01", resp.DateRange.Start)
	assert.Equal(t, "2025-09-30", resp.DateRange.End)

	ca := resp.States[models.RegionCA]
	require.NotNil(t, ca)
	assert.Equal(t, 9000.0, ca.Spend)
	assert.Equal(t, 3.0, ca.Leads)
	assert.Equal(t, 2.0, ca.Retainers)
	assert.Equal(t, 2.0, ca.Cases)
	assert.InDelta(t, 3000.0, ca.CPL, 0.001)
	assert.InDelta(t, 66.667, ca.ConversionRate, 0.01)

	az := resp.States[models.RegionAZ]
	assert.Equal(t, 3000.0, az.Spend)
	assert.Equal(t, 1.0, az.Leads)

	assert.Equal(t, 12000.0, resp.Totals.Spend)
	assert.Equal(t, 4.0, resp.Totals.Leads)
}

func TestPacingActualsCompanionCasesCollapse(t *testing.T) {
	u := &upstream{
		campaigns: []map[string]any{campaignRow("c1", "CA-EN-Brand", 100)},
		leads: []map[string]any{
			{"id": "l1", "utm_campaign": "CA-EN-Brand", "in_practice": true, "is_converted": true, "companion_case_id": "l2", "created_at": "2025-09-05T10:00:00Z"},
			{"id": "l2", "utm_campaign": "CA-EN-Brand", "in_practice": true, "is_converted": true, "created_at": "2025-09-05T10:00:00Z"},
		},
	}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.PacingActuals(context.Background(), "", "", models.LeadFilters{}, false)
	ca := resp.States[models.RegionCA]
	assert.Equal(t, 2.0, ca.Retainers)
	assert.Equal(t, 1.0, ca.Cases)
}

func TestPacingActualsDemoFallback(t *testing.T) {
	svc := newTestService(t, "", "")

	resp := svc.PacingActuals(context.Background(), "", "", models.LeadFilters{}, false)
	assert.Equal(t, models.SourceDemo, resp.DataSource)
	assert.Equal(t, 450000.0, resp.States[models.RegionCA].Spend)
	assert.Equal(t, 0.0, resp.States[models.RegionTX].Spend)
	assert.Equal(t, 725000.0, resp.Totals.Spend)
}

func TestProjectionsUseStoredSettings(t *testing.T) {
	svc := newTestService(t, "", "")

	resp, err := svc.Projections(context.Background(), models.LeadFilters{}, false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceDemo, resp.DataSource)
	require.Len(t, resp.States, len(models.Regions))

	ca := resp.States[models.RegionCA]
	require.NotNil(t, ca)
	assert.Greater(t, ca.Projected.Spend, 0.0)
	assert.NotEmpty(t, resp.Snapshot.Metrics)
}

func TestAnnualDemoFallback(t *testing.T) {
	svc := newTestService(t, "", "")

	resp := svc.Annual(context.Background(), 2025, models.LeadFilters{}, false)
	require.Len(t, resp.Months, 12)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, models.SourceDemo, resp.DataSource)

	sep := resp.Months[8]
	assert.Equal(t, "September", sep.Month)
	assert.True(t, sep.IsCurrent)
	assert.False(t, sep.IsFuture)
	assert.True(t, resp.Months[9].IsFuture)
	assert.Zero(t, resp.Months[9].Summary.Leads)

	assert.Greater(t, resp.Summary.TotalSpend, 0.0)
	assert.Greater(t, resp.Summary.AvgCPL, 0.0)

	require.NotNil(t, resp.Analysis.BestCPLMonth)
	assert.Less(t, resp.Analysis.BestCPLMonth.MonthNum, 9)
	assert.Greater(t, resp.Analysis.AvgMonthlySpend, 0.0)
}

func TestAnnualMixedSourcesReportPartial(t *testing.T) {
	// one month's upstream window fails on both APIs, so that month falls
	// back to demo data while the rest of the year serves live
	failMarch := func(w http.ResponseWriter, r *http.Request) bool {
		if strings.HasPrefix(r.URL.Query().Get("start_date"), "2025-03") {
			http.Error(w, "down", http.StatusInternalServerError)
			return true
		}
		return false
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		if failMarch(w, r) {
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{campaignRow("c1", "CA-EN-Brand", 100)})
	})
	mux.HandleFunc("/leads", func(w http.ResponseWriter, r *http.Request) {
		if failMarch(w, r) {
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.Annual(context.Background(), 2025, models.LeadFilters{}, false)
	assert.Equal(t, models.SourcePartial, resp.DataSource)
	// March itself was served from the demo dataset
	assert.Greater(t, resp.Months[2].Summary.Spend, 0.0)
}

func TestAnnualAllLiveSourcesReportLive(t *testing.T) {
	u := &upstream{campaigns: []map[string]any{campaignRow("c1", "CA-EN-Brand", 100)}}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.Annual(context.Background(), 2025, models.LeadFilters{}, false)
	assert.Equal(t, models.SourceLive, resp.DataSource)
}

func TestUpdateRegionTargets(t *testing.T) {
	svc := newTestService(t, "", "")

	saved, err := svc.UpdateRegionTargets(models.RegionCA, map[models.Metric]*models.MetricTarget{
		models.MetricLeads: {MonthlyTotal: 1000},
	})
	require.NoError(t, err)

	// conversion propagation at the default 20%/25% rates
	assert.Equal(t, 1000.0, saved.Target(models.RegionCA, models.MetricLeads).MonthlyTotal)
	assert.Equal(t, 200.0, saved.Target(models.RegionCA, models.MetricCases).MonthlyTotal)
	assert.Equal(t, 250.0, saved.Target(models.RegionCA, models.MetricRetainers).MonthlyTotal)
	assert.Greater(t, saved.Target(models.RegionCA, models.MetricLeads).WeekdayDaily, 0.0)

	// other regions keep their stored targets
	assert.Equal(t, 400.0, saved.Target(models.RegionAZ, models.MetricLeads).MonthlyTotal)

	loaded, err := svc.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, loaded.Target(models.RegionCA, models.MetricLeads).MonthlyTotal)

	_, err = svc.UpdateRegionTargets(models.Region("NV"), nil)
	assert.Error(t, err)
}

func TestDailyTrendGroupsByDay(t *testing.T) {
	u := &upstream{
		campaigns: []map[string]any{
			{"date": "2025-09-03", "campaign_id": "c1", "name": "CA-EN-Brand", "customer_id": "123", "customer_name": "Acct", "cost": 100.0, "status": "active"},
			{"date": "2025-09-05", "campaign_id": "c1", "name": "CA-EN-Brand", "customer_id": "123", "customer_name": "Acct", "cost": 200.0, "status": "active"},
		},
		leads: []map[string]any{
			{"id": "l1", "utm_campaign": "CA-EN-Brand", "in_practice": true, "is_converted": true, "companion_case_id": "l2", "created_at": "2025-09-03T09:00:00Z"},
			{"id": "l2", "utm_campaign": "CA-EN-Brand", "in_practice": true, "is_converted": true, "created_at": "2025-09-05T09:00:00Z"},
			{"id": "l3", "utm_campaign": "CA-EN-Brand", "in_practice": true, "is_converted": false, "created_at": "2025-09-05T11:00:00Z"},
		},
	}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.DailyTrend(context.Background(), models.LeadFilters{}, false)
	assert.Equal(t, models.SourceLive, resp.DataSource)
	assert.Equal(t, "2025-09", resp.Month)
	require.Len(t, resp.DailyData, 10)

	d3 := resp.DailyData[2]
	assert.Equal(t, "2025-09-03", d3.Date)
	assert.Equal(t, 100.0, d3.Daily.Spend)
	assert.Equal(t, 1.0, d3.Daily.Leads)
	assert.Equal(t, 1.0, d3.Daily.Retainers)
	// the companion pair is one case, on the day its first retainer landed
	assert.Equal(t, 1.0, d3.Daily.Cases)

	d5 := resp.DailyData[4]
	assert.Equal(t, "2025-09-05", d5.Date)
	assert.Equal(t, 200.0, d5.Daily.Spend)
	assert.Equal(t, 2.0, d5.Daily.Leads)
	assert.Equal(t, 1.0, d5.Daily.Retainers)
	assert.Equal(t, 0.0, d5.Daily.Cases)

	last := resp.DailyData[len(resp.DailyData)-1]
	assert.Equal(t, "2025-09-10", last.Date)
	assert.Equal(t, 300.0, last.Cumulative.Spend)
	assert.Equal(t, 3.0, last.Cumulative.Leads)
	assert.Equal(t, 2.0, last.Cumulative.Retainers)
	assert.Equal(t, 1.0, last.Cumulative.Cases)
}

func TestComparisonMonthToDate(t *testing.T) {
	// September windows carry more spend and one lead; August has neither
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		cost := 100.0
		if strings.HasPrefix(r.URL.Query().Get("start_date"), "2025-09") {
			cost = 300.0
		}
		json.NewEncoder(w).Encode([]map[string]any{campaignRow("c1", "CA-EN-Brand", cost)})
	})
	mux.HandleFunc("/leads", func(w http.ResponseWriter, r *http.Request) {
		rows := []map[string]any{}
		if strings.HasPrefix(r.URL.Query().Get("start_date"), "2025-09") {
			rows = append(rows, leadRow("l1", "CA-EN-Brand", true, true))
		}
		json.NewEncoder(w).Encode(rows)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	svc := newTestService(t, srv.URL, srv.URL)

	resp := svc.Comparison(context.Background(), "mtd", "", "", models.LeadFilters{})
	assert.Equal(t, models.SourceLive, resp.DataSource)
	assert.Equal(t, "2025-09-01", resp.CurrentPeriod.Start)
	assert.Equal(t, "2025-09-10", resp.CurrentPeriod.End)
	assert.Equal(t, "2025-08-01", resp.PreviousPeriod.Start)
	assert.Equal(t, "2025-08-10", resp.PreviousPeriod.End)

	spend := resp.Changes["total_spend"]
	assert.Equal(t, 300.0, spend.Current)
	assert.Equal(t, 100.0, spend.Previous)
	assert.Equal(t, 200.0, spend.Change)
	assert.Equal(t, 200.0, spend.ChangePercent)

	// a metric rising from zero reads as +100%
	leads := resp.Changes["total_leads"]
	assert.Equal(t, 1.0, leads.Current)
	assert.Equal(t, 0.0, leads.Previous)
	assert.Equal(t, 100.0, leads.ChangePercent)
}

func TestComparisonPeriodWindows(t *testing.T) {
	svc := newTestService(t, "", "")

	// testNow is Wednesday 2025-09-10
	resp := svc.Comparison(context.Background(), "today", "", "", models.LeadFilters{})
	assert.Equal(t, "2025-09-10", resp.CurrentPeriod.Start)
	assert.Equal(t, "2025-09-09", resp.PreviousPeriod.Start)

	resp = svc.Comparison(context.Background(), "week", "", "", models.LeadFilters{})
	assert.Equal(t, "2025-09-08", resp.CurrentPeriod.Start)
	assert.Equal(t, "2025-09-01", resp.PreviousPeriod.Start)
	assert.Equal(t, "2025-09-03", resp.PreviousPeriod.End)

	resp = svc.Comparison(context.Background(), "custom", "2025-09-04", "2025-09-06", models.LeadFilters{})
	assert.Equal(t, "2025-09-04", resp.CurrentPeriod.Start)
	assert.Equal(t, "2025-09-01", resp.PreviousPeriod.Start)
	assert.Equal(t, "2025-09-03", resp.PreviousPeriod.End)
	assert.Equal(t, models.SourceDemo, resp.DataSource)
}

func TestExportCSV(t *testing.T) {
	u := &upstream{
		campaigns: []map[string]any{campaignRow("c1", "CA-EN-Brand", 1234.56)},
		leads:     []map[string]any{leadRow("l1", "CA-EN-Brand", true, true)},
	}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, srv.URL)

	f, err := svc.Export(context.Background(), Params{StartDate: "2025-09-01", EndDate: "2025-09-10"}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType)
	assert.Equal(t, "dashboard_2025-09-01_2025-09-10.csv", f.Filename)

	body := string(f.Data)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 1+len(buckets.Priority))
	assert.Contains(t, lines[0], "Bucket,State,Cost")
	assert.Contains(t, body, "California Brand")
	assert.Contains(t, body, "1234.56")
}

func TestExportXLSX(t *testing.T) {
	svc := newTestService(t, "", "")

	f, err := svc.Export(context.Background(), Params{}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.ContentType)
	assert.True(t, strings.HasSuffix(f.Filename, ".xlsx"))
	// xlsx files are zip archives
	require.GreaterOrEqual(t, len(f.Data), 4)
	assert.Equal(t, []byte{'P', 'K'}, f.Data[:2])
}

func TestAllCampaignsAnnotatesBuckets(t *testing.T) {
	u := &upstream{campaigns: []map[string]any{
		campaignRow("c1", "CA-EN-Brand", 100),
		campaignRow("c2", "Totally Unknown", 50),
	}}
	srv := u.server(t)
	svc := newTestService(t, srv.URL, "")

	resp := svc.AllCampaigns(context.Background(), "", "")
	assert.Equal(t, models.SourceLive, resp.DataSource)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Unmapped)

	byID := map[string]CampaignInfo{}
	for _, c := range resp.Campaigns {
		byID[c.ID] = c
	}
	assert.Equal(t, "California Brand", byID["c1"].Bucket)
	assert.True(t, byID["c1"].Mapped)
	assert.False(t, byID["c2"].Mapped)
}

func TestUpdateSettingsRecomputesAndPurgesCache(t *testing.T) {
	svc := newTestService(t, "", "")

	first := svc.DashboardData(context.Background(), Params{})
	again := svc.DashboardData(context.Background(), Params{})
	require.Same(t, first, again)

	settings := models.DefaultForecastSettings()
	settings.Target(models.RegionCA, models.MetricLeads).MonthlyTotal = 2000
	settings.LeadToRetainerRate = 30

	saved, err := svc.UpdateSettings(settings)
	require.NoError(t, err)

	// conversion propagation: 2000 leads at 30% -> 600 retainers
	assert.Equal(t, 600.0, saved.Target(models.RegionCA, models.MetricRetainers).MonthlyTotal)
	// daily splits recomputed for September 2025 (22 weekdays, 8 weekend days)
	lt := saved.Target(models.RegionCA, models.MetricLeads)
	assert.Greater(t, lt.WeekdayDaily, 0.0)
	assert.Greater(t, lt.WeekendDaily, 0.0)

	fresh := svc.DashboardData(context.Background(), Params{})
	assert.NotSame(t, first, fresh)

	loaded, err := svc.Settings()
	require.NoError(t, err)
	assert.Equal(t, 2000.0, loaded.Target(models.RegionCA, models.MetricLeads).MonthlyTotal)
}

func TestUTMMappingLifecycle(t *testing.T) {
	svc := newTestService(t, "", "")

	require.NoError(t, svc.SetUTMMapping("new-utm", "Texas Brand"))
	m, err := svc.UTMMappings()
	require.NoError(t, err)
	assert.Equal(t, "Texas Brand", m["new-utm"])

	ok, err := svc.DeleteUTMMapping("new-utm")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteUTMMapping("never-existed")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.ReplaceUTMMappings(map[string]string{"only-one": "California Brand"}))
	m, err = svc.UTMMappings()
	require.NoError(t, err)
	require.Len(t, m, 1)

	require.NoError(t, svc.ResetUTMMappings())
	m, err = svc.UTMMappings()
	require.NoError(t, err)
	assert.Equal(t, len(buckets.DefaultUTMMapping), len(m))
}

func TestSetPreferences(t *testing.T) {
	svc := newTestService(t, "", "")

	prefs, err := svc.SetPreferences(map[string]bool{"dark_mode": true, "include_spam": true})
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
	assert.True(t, prefs.IncludeSpam)
	assert.False(t, prefs.SidebarCollapsed)

	_, err = svc.SetPreferences(map[string]bool{"bogus": true})
	assert.Error(t, err)
}

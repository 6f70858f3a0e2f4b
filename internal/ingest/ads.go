package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// AdsClient pulls campaign spend from the ads API.
type AdsClient struct {
	c    HTTPClient
	base string
	log  *slog.Logger
}

func NewAdsClient(c HTTPClient, baseURL string, log *slog.Logger) *AdsClient {
	return &AdsClient{c: c, base: strings.TrimRight(baseURL, "/"), log: log}
}

// Configured reports whether an upstream URL was provided at all.
func (a *AdsClient) Configured() bool { return a.base != "" }

// Ping probes upstream connectivity.
func (a *AdsClient) Ping(ctx context.Context) error {
	return ping(ctx, a.c, a.base+"/health")
}

type campaignRow struct {
	Date         string  `json:"date"`
	CampaignID   string  `json:"campaign_id"`
	Name         string  `json:"name"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Cost         float64 `json:"cost"`
	IsLSA        bool    `json:"is_lsa"`
	Status       string  `json:"status"`
}

// FetchCampaigns returns campaign rows for the inclusive date range.
// Rows with unparseable dates are dropped; negative costs clamp to 0.
func (a *AdsClient) FetchCampaigns(ctx context.Context, start, end string, activeOnly bool) ([]models.Campaign, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	q.Set("active_only", strconv.FormatBool(activeOnly))

	var rows []campaignRow
	if err := GetJSONWithRetry(ctx, a.c, a.base+"/campaigns?"+q.Encode(), &rows); err != nil {
		return nil, err
	}

	out := make([]models.Campaign, 0, len(rows))
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(r.Date))
		if err != nil {
			continue
		}
		out = append(out, models.Campaign{
			ID:           strings.TrimSpace(r.CampaignID),
			Name:         strings.TrimSpace(r.Name),
			CustomerID:   strings.TrimSpace(r.CustomerID),
			CustomerName: strings.TrimSpace(r.CustomerName),
			Cost:         maxf(r.Cost),
			IsLSA:        r.IsLSA,
			Status:       strings.ToLower(strings.TrimSpace(r.Status)),
			Date:         d,
		})
	}
	a.log.Debug("ads fetch complete", slog.Int("campaigns", len(out)))
	return out, nil
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

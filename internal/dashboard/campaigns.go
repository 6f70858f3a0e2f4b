package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/demo"
	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// CampaignInfo is one campaign row annotated with its bucket assignment.
type CampaignInfo struct {
	models.Campaign
	Bucket string `json:"bucket"`
	Mapped bool   `json:"mapped"`
}

// AllCampaignsResponse is the /api/all-campaigns payload.
type AllCampaignsResponse struct {
	Campaigns  []CampaignInfo    `json:"campaigns"`
	Total      int               `json:"total"`
	Unmapped   int               `json:"unmapped"`
	DataSource models.DataSource `json:"data_source"`
	DateRange  DateRange         `json:"date_range"`
	Timestamp  time.Time         `json:"timestamp"`
}

// AllCampaigns lists every campaign in the window, including inactive
// ones, with its resolved bucket. Useful for auditing the mapping table.
func (s *Service) AllCampaigns(ctx context.Context, startDate, endDate string) *AllCampaignsResponse {
	start, end := s.resolveMonthRange(startDate, endDate)

	var campaigns []models.Campaign
	source := models.SourceDemo
	if s.ads.Configured() {
		got, err := s.ads.FetchCampaigns(ctx, start, end, false)
		if err != nil {
			s.log.Warn("ads fetch failed", slog.String("err", err.Error()))
		} else {
			campaigns, source = got, models.SourceLive
		}
	}
	if source == models.SourceDemo {
		startT, err := time.Parse("2006-01-02", start)
		if err != nil {
			startT = s.now()
		}
		campaigns = demo.Campaigns(startT)
	}

	resp := &AllCampaignsResponse{
		Campaigns:  []CampaignInfo{},
		DataSource: source,
		DateRange:  DateRange{Start: start, End: end},
		Timestamp:  s.now(),
	}
	for _, c := range campaigns {
		bucket, ok := s.mapper.BucketForCampaign(c)
		if !ok {
			resp.Unmapped++
		}
		resp.Campaigns = append(resp.Campaigns, CampaignInfo{Campaign: c, Bucket: bucket, Mapped: ok})
	}
	resp.Total = len(resp.Campaigns)
	return resp
}

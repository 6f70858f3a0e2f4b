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

// CRMClient pulls intake leads from the CRM API.
type CRMClient struct {
	c    HTTPClient
	base string
	log  *slog.Logger
}

func NewCRMClient(c HTTPClient, baseURL string, log *slog.Logger) *CRMClient {
	return &CRMClient{c: c, base: strings.TrimRight(baseURL, "/"), log: log}
}

func (c *CRMClient) Configured() bool { return c.base != "" }

func (c *CRMClient) Ping(ctx context.Context) error {
	return ping(ctx, c.c, c.base+"/health")
}

type leadRow struct {
	ID              string `json:"id"`
	UTMCampaign     string `json:"utm_campaign"`
	CaseType        string `json:"case_type"`
	InPractice      bool   `json:"in_practice"`
	IsConverted     bool   `json:"is_converted"`
	IsPending       bool   `json:"is_pending"`
	MatterID        string `json:"matter_id"`
	CompanionCaseID string `json:"companion_case_id"`
	CreatedAt       string `json:"created_at"`
}

// FetchLeads returns leads for the inclusive date range. Spam, abandoned
// and duplicate case types are excluded unless the corresponding filter
// re-includes them.
func (c *CRMClient) FetchLeads(ctx context.Context, start, end string, limit int, f models.LeadFilters) ([]models.Lead, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("include_spam", strconv.FormatBool(f.IncludeSpam))
	q.Set("include_abandoned", strconv.FormatBool(f.IncludeAbandoned))
	q.Set("include_duplicate", strconv.FormatBool(f.IncludeDuplicate))

	var rows []leadRow
	if err := GetJSONWithRetry(ctx, c.c, c.base+"/leads?"+q.Encode(), &rows); err != nil {
		return nil, err
	}

	out := make([]models.Lead, 0, len(rows))
	for _, r := range rows {
		caseType := strings.TrimSpace(r.CaseType)
		if excluded(caseType, f) {
			continue
		}
		var created time.Time
		if r.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
				created = t
			}
		}
		out = append(out, models.Lead{
			ID:              strings.TrimSpace(r.ID),
			UTMCampaign:     strings.TrimSpace(r.UTMCampaign),
			CaseType:        caseType,
			InPractice:      r.InPractice,
			Converted:       r.IsConverted,
			Pending:         r.IsPending,
			MatterID:        strings.TrimSpace(r.MatterID),
			CompanionCaseID: strings.TrimSpace(r.CompanionCaseID),
			CreatedAt:       created,
		})
	}
	c.log.Debug("crm fetch complete", slog.Int("leads", len(out)))
	return out, nil
}

// excluded applies the default case-type exclusions unless re-included.
func excluded(caseType string, f models.LeadFilters) bool {
	switch caseType {
	case "Spam":
		return !f.IncludeSpam
	case "Abandoned":
		return !f.IncludeAbandoned
	case "Duplicate":
		return !f.IncludeDuplicate
	}
	return false
}

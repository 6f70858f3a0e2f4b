package buckets

import (
	"fmt"
	"sort"

	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

// Result is the bucketed view of one campaign/lead dataset.
type Result struct {
	Buckets           []*models.Bucket
	UnmappedCampaigns []string
	UnmappedUTMs      []string
	Excluded          models.ExcludedCounts
}

// Process aggregates campaigns and leads into the priority buckets.
// Cases are counted as unique companion groups, not raw converted leads.
func (m *Mapper) Process(campaigns []models.Campaign, leads []models.Lead) Result {
	byName := make(map[string]*models.Bucket, len(Priority))
	ordered := make([]*models.Bucket, 0, len(Priority))
	for _, name := range Priority {
		state := "Unknown"
		if r, ok := RegionForBucket(name); ok {
			state = r.DisplayName()
		}
		b := &models.Bucket{Name: name, State: state, Campaigns: []string{}}
		byName[name] = b
		ordered = append(ordered, b)
	}

	var res Result
	res.UnmappedCampaigns = []string{}
	res.UnmappedUTMs = []string{}

	for _, c := range campaigns {
		bucket, ok := m.BucketForCampaign(c)
		if !ok {
			res.UnmappedCampaigns = append(res.UnmappedCampaigns, c.Name)
			continue
		}
		b, ok := byName[bucket]
		if !ok {
			res.UnmappedCampaigns = append(res.UnmappedCampaigns, c.Name)
			continue
		}
		b.Campaigns = append(b.Campaigns, c.Name)
		b.Cost += c.Cost
	}

	for _, l := range leads {
		switch l.CaseType {
		case "Spam":
			res.Excluded.Spam++
			res.Excluded.Total++
		case "Abandoned":
			res.Excluded.Abandoned++
			res.Excluded.Total++
		case "Duplicate":
			res.Excluded.Duplicate++
			res.Excluded.Total++
		}
	}

	groups := CaseGroups(leads)
	casesByBucket := make(map[string]map[string]struct{})
	seenUTM := make(map[string]struct{})

	for _, l := range leads {
		bucket, ok := m.BucketForLead(l)
		if !ok {
			if l.UTMCampaign != "" && l.UTMCampaign != "-" {
				if _, dup := seenUTM[l.UTMCampaign]; !dup {
					seenUTM[l.UTMCampaign] = struct{}{}
					res.UnmappedUTMs = append(res.UnmappedUTMs, l.UTMCampaign)
				}
			}
			continue
		}
		b, ok := byName[bucket]
		if !ok {
			continue
		}

		b.Leads++
		if l.InPractice {
			b.InPractice++
			if l.Converted {
				b.Retainers++
				caseID := groups[l.ID]
				if caseID == "" {
					caseID = "unknown_" + l.ID
				}
				set := casesByBucket[bucket]
				if set == nil {
					set = make(map[string]struct{})
					casesByBucket[bucket] = set
				}
				set[caseID] = struct{}{}
			} else {
				b.Unqualified++
			}
		}
		if l.Pending {
			b.PendingRetainers++
		}
	}

	sort.Strings(res.UnmappedUTMs)

	for _, b := range ordered {
		b.Cases = len(casesByBucket[b.Name])
		b.TotalRetainers = b.Retainers + b.PendingRetainers

		if b.InPractice > 0 {
			if b.Leads > 0 {
				b.InPracticePercent = utils.Round3(float64(b.InPractice) / float64(b.Leads))
			}
			b.UnqualifiedPct = utils.Round3(float64(b.Unqualified) / float64(b.InPractice))
			b.ConversionRate = utils.Round3(float64(b.Retainers) / float64(b.InPractice))
		}
		if b.Leads > 0 {
			b.CostPerLead = utils.Round2(b.Cost / float64(b.Leads))
		}
		if b.Cases > 0 {
			b.CPA = utils.Round2(b.Cost / float64(b.Cases))
		}
		if b.Retainers > 0 {
			b.CostPerRetainer = utils.Round2(b.Cost / float64(b.Retainers))
		}
	}

	res.Buckets = ordered
	return res
}

// Totals sums the headline figures across buckets.
func Totals(bs []*models.Bucket) models.MetricSet {
	var t models.MetricSet
	for _, b := range bs {
		t.Spend += b.Cost
		t.Leads += float64(b.Leads)
		t.Cases += float64(b.Cases)
		t.Retainers += float64(b.Retainers)
	}
	return t
}

// CaseGroups links leads through companion and matter references and
// assigns one case ID per connected group (breadth-first walk).
func CaseGroups(leads []models.Lead) map[string]string {
	adj := make(map[string]map[string]struct{})
	link := func(a, b string) {
		if a == "" || b == "" || a == b {
			return
		}
		if adj[a] == nil {
			adj[a] = make(map[string]struct{})
		}
		if adj[b] == nil {
			adj[b] = make(map[string]struct{})
		}
		adj[a][b] = struct{}{}
		adj[b][a] = struct{}{}
	}

	byMatter := make(map[string][]string)
	for _, l := range leads {
		link(l.ID, l.CompanionCaseID)
		if l.MatterID != "" {
			byMatter[l.MatterID] = append(byMatter[l.MatterID], l.ID)
		}
	}
	for _, ids := range byMatter {
		for i := 1; i < len(ids); i++ {
			link(ids[0], ids[i])
		}
	}

	assignments := make(map[string]string, len(leads))
	visited := make(map[string]struct{})
	counter := 0

	for _, l := range leads {
		if l.ID == "" {
			continue
		}
		if _, ok := visited[l.ID]; ok {
			continue
		}
		counter++
		caseID := fmt.Sprintf("CASE_%04d", counter)

		queue := []string{l.ID}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if _, ok := visited[cur]; ok {
				continue
			}
			visited[cur] = struct{}{}
			assignments[cur] = caseID
			for next := range adj[cur] {
				if _, ok := visited[next]; !ok {
					queue = append(queue, next)
				}
			}
		}
	}

	return assignments
}


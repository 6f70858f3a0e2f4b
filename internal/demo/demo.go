// Package demo provides the deterministic fallback dataset served when an
// upstream source is unreachable. Figures are fixed so the UI renders
// something sensible, and responses carrying them are always labeled Demo.
package demo

import (
	"fmt"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

// Campaigns returns a fixed spend dataset dated within the given range.
func Campaigns(start time.Time) []models.Campaign {
	rows := []struct {
		name string
		cost float64
	}{
		{"CA-EN-Brand", 120000},
		{"GS_NonBrand - CA", 110000},
		{"CA-Pmax-EN-MVA", 70000},
		{"CA-NB-LSA", 47000},
		{"CA-LA-LSA", 38000},
		{"AZ-EN-Brand", 50000},
		{"GS_NonBrand - AZ", 80000},
		{"PMAX_AZ", 40000},
		{"AZ-PX-LSA", 30000},
		{"GA-EN-Brand", 25000},
		{"GS_NonBrand - GA", 35000},
		{"GA-RO-LSA", 15000},
		{"TX-EN-Brand", 0},
	}
	out := make([]models.Campaign, 0, len(rows))
	for i, r := range rows {
		out = append(out, models.Campaign{
			ID:     fmt.Sprintf("DEMO-%03d", i+1),
			Name:   r.name,
			Cost:   r.cost,
			Status: "enabled",
			Date:   start,
		})
	}
	return out
}

// leadSpec drives the synthetic lead generator: per bucket, how many leads
// of each disposition to emit.
type leadSpec struct {
	bucket     string
	plain      int // leads not yet in practice
	inPractice int // in practice, not converted
	converted  int // in practice and converted
	pending    int
}

var leadSpecs = []leadSpec{
	{bucket: "California Brand", plain: 40, inPractice: 120, converted: 60, pending: 5},
	{bucket: "California Prospecting", plain: 80, inPractice: 210, converted: 90, pending: 5},
	{bucket: "California LSA", plain: 15, inPractice: 85, converted: 50, pending: 8},
	{bucket: "Arizona Brand", plain: 15, inPractice: 45, converted: 20, pending: 2},
	{bucket: "Arizona Prospecting", plain: 50, inPractice: 115, converted: 35, pending: 3},
	{bucket: "Georgia Brand", plain: 10, inPractice: 30, converted: 14, pending: 1},
	{bucket: "Georgia Prospecting", plain: 20, inPractice: 42, converted: 14, pending: 2},
}

// excludedSpecs emit the excludable case types, only surfaced when a
// filter re-includes them.
var excludedSpecs = []struct {
	caseType string
	count    int
}{
	{"Spam", 25},
	{"Abandoned", 18},
	{"Duplicate", 15},
}

// Leads returns a fixed lead dataset honoring the exclusion filters.
func Leads(start time.Time, f models.LeadFilters) []models.Lead {
	var out []models.Lead
	n := 0
	next := func(bucket, caseType string, inPractice, converted, pending bool) {
		n++
		out = append(out, models.Lead{
			ID:         fmt.Sprintf("DEMO-L%04d", n),
			Bucket:     bucket,
			CaseType:   caseType,
			InPractice: inPractice,
			Converted:  converted,
			Pending:    pending,
			CreatedAt:  start,
		})
	}

	for _, s := range leadSpecs {
		for i := 0; i < s.plain; i++ {
			next(s.bucket, "Automobile Accident", false, false, false)
		}
		for i := 0; i < s.inPractice; i++ {
			next(s.bucket, "Automobile Accident", true, false, false)
		}
		for i := 0; i < s.converted; i++ {
			next(s.bucket, "Automobile Accident", true, true, false)
		}
		for i := 0; i < s.pending; i++ {
			next(s.bucket, "Automobile Accident", false, false, true)
		}
	}

	for _, s := range excludedSpecs {
		include := (s.caseType == "Spam" && f.IncludeSpam) ||
			(s.caseType == "Abandoned" && f.IncludeAbandoned) ||
			(s.caseType == "Duplicate" && f.IncludeDuplicate)
		if !include {
			continue
		}
		for i := 0; i < s.count; i++ {
			next("California Prospecting", s.caseType, false, false, false)
		}
	}

	return out
}

// PacingActuals returns fixed month-to-date actuals per region.
func PacingActuals() map[models.Region]models.MetricSet {
	return map[models.Region]models.MetricSet{
		models.RegionCA: {Spend: 450000, Leads: 650, Cases: 140, Retainers: 160},
		models.RegionAZ: {Spend: 200000, Leads: 180, Cases: 40, Retainers: 45},
		models.RegionGA: {Spend: 75000, Leads: 110, Cases: 24, Retainers: 28},
		models.RegionTX: {},
	}
}

// MonthlySummary returns a deterministic month rollup for annual views.
// Values vary by month so the chart is not a flat line.
func MonthlySummary(month time.Month) models.MonthSummary {
	m := int(month)
	s := models.MonthSummary{
		Spend:       float64(800000 + (m%4)*150000),
		Leads:       500 + (m%5)*60,
		Cases:       100 + (m%3)*25,
		Retainers:   130 + (m%4)*20,
		InPractice:  420 + (m%5)*50,
		Unqualified: 70 + (m%3)*15,
	}
	s.CPL = utils.Round2(s.Spend / float64(s.Leads))
	s.CPA = utils.Round2(s.Spend / float64(s.Cases))
	s.CPR = utils.Round2(s.Spend / float64(s.Retainers))
	s.ConversionRate = utils.Round2(float64(s.Retainers) / float64(s.Leads) * 100)
	return s
}

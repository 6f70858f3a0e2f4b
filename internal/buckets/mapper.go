// Package buckets maps ad campaigns and CRM leads into the named
// region/type groupings the dashboard reports on, and aggregates their
// funnel metrics.
package buckets

import (
	"strings"
	"sync"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// Priority defines the order buckets appear in the UI.
var Priority = []string{
	"California Brand",
	"California Prospecting",
	"California LSA",
	"Arizona Brand",
	"Arizona Prospecting",
	"Arizona LSA",
	"Georgia Brand",
	"Georgia Prospecting",
	"Georgia LSA",
	"Texas Brand",
	"Texas Prospecting",
	"Texas LSA",
	"Crisp/Youtube",
}

// DefaultCampaignBuckets maps bucket name to the campaign names it owns.
var DefaultCampaignBuckets = map[string][]string{
	"California Brand": {"CA-EN-Brand"},
	"California Prospecting": {
		"GS_NonBrand - CA", "CA-Pmax-EN-MVA", "CA-SF-Pmax-EN-MVA",
		"CA-SC-Pmax-EN-MVA", "SC-S-EN-MVA Manual w/ ECPC",
	},
	"California LSA":      {"LocalServicesCampaign:CA", "CA-NB-LSA", "CA-LA-LSA"},
	"Arizona Brand":       {"AZ-EN-Brand", "GS_Brand - AZ"},
	"Arizona Prospecting": {"GS_NonBrand - AZ", "AZ-Pmax-EN-MVA", "AZ-PX-Pmax-EN-MVA", "PMAX_AZ"},
	"Arizona LSA":         {"LocalServicesCampaign:AZ", "AZ-PX-LSA"},
	"Georgia Brand":       {"GA-EN-Brand", "GS_Brand - GA", "GS_Brand - GA - ATLPI"},
	"Georgia Prospecting": {"GS_NonBrand - GA", "GS_NonBrand - GA - ATLPI", "GA-AT-Pmax-EN-MVA", "PMAX_GA"},
	"Georgia LSA":         {"LocalServicesCampaign:GA", "GA-RO-LSA"},
	"Texas Brand":         {"TX-EN-Brand"},
	"Texas LSA":           {"LocalServicesCampaign:TX"},
}

// DefaultUTMMapping maps lead UTM campaigns to bucket names.
var DefaultUTMMapping = map[string]string{
	"CA-EN-Brand":          "California Brand",
	"gs_nonbrand-ca":       "California Prospecting",
	"ca-pmax-en-mva":       "California Prospecting",
	"pmax_ca":              "California Prospecting",
	"CA-NB-LSA":            "California LSA",
	"CA-LA-LSA":            "California LSA",
	"AZ-EN-Brand":          "Arizona Brand",
	"gs_brand-az":          "Arizona Brand",
	"gs_nonbrand-az":       "Arizona Prospecting",
	"pmax_az":              "Arizona Prospecting",
	"AZ-PX-LSA":            "Arizona LSA",
	"GA-EN-Brand":          "Georgia Brand",
	"gs_nonbrand-ga":       "Georgia Prospecting",
	"gs_nonbrand-ga-atlpi": "Georgia Prospecting",
	"pmax_ga":              "Georgia Prospecting",
	"GA-RO-LSA":            "Georgia LSA",
	"TX-EN-Brand":          "Texas Brand",
	"GMB - Newport Beach":  "California Prospecting",
}

// lsaAccounts maps LSA customer account IDs to their bucket.
var lsaAccounts = map[string]string{
	"2419159990": "Arizona LSA",
	"8734393866": "Georgia LSA",
	"2065821782": "California LSA",
	"1130290121": "California LSA",
	"9598631966": "Georgia LSA",
	"1867060368": "California LSA",
}

// Mapper resolves campaigns and leads to buckets. The UTM table can be
// swapped by mapping edits while request goroutines resolve against it,
// so access goes through the mutex.
type Mapper struct {
	mu              sync.RWMutex
	campaignBuckets map[string][]string
	utmToBucket     map[string]string
}

func NewMapper(campaignBuckets map[string][]string, utmToBucket map[string]string) *Mapper {
	if campaignBuckets == nil {
		campaignBuckets = DefaultCampaignBuckets
	}
	if utmToBucket == nil {
		utmToBucket = DefaultUTMMapping
	}
	return &Mapper{campaignBuckets: campaignBuckets, utmToBucket: utmToBucket}
}

// SetUTMMapping swaps the UTM table after a mapping edit.
func (m *Mapper) SetUTMMapping(utmToBucket map[string]string) {
	m.mu.Lock()
	m.utmToBucket = utmToBucket
	m.mu.Unlock()
}

// UTMMapping returns a copy of the current UTM table.
func (m *Mapper) UTMMapping() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.utmToBucket))
	for k, v := range m.utmToBucket {
		out[k] = v
	}
	return out
}

// BucketForCampaign resolves a campaign to its bucket. LSA campaigns go by
// customer account first, then by location hints in the customer name.
func (m *Mapper) BucketForCampaign(c models.Campaign) (string, bool) {
	if c.IsLSA || strings.Contains(c.Name, "LocalServicesCampaign") {
		if b, ok := lsaAccounts[c.CustomerID]; ok {
			return b, true
		}
		if b := lsaBucketFromCustomerName(c.CustomerName); b != "" {
			return b, true
		}
	}
	for bucket, names := range m.campaignBuckets {
		for _, n := range names {
			if n == c.Name {
				return bucket, true
			}
		}
	}
	return "", false
}

// BucketForLead resolves a lead to its bucket via its preassigned bucket or
// its UTM campaign.
func (m *Mapper) BucketForLead(l models.Lead) (string, bool) {
	if l.Bucket != "" {
		return l.Bucket, true
	}
	m.mu.RLock()
	b, ok := m.utmToBucket[l.UTMCampaign]
	m.mu.RUnlock()
	if ok {
		return b, true
	}
	return "", false
}

func lsaBucketFromCustomerName(name string) string {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "los angeles", "la ", "newport", "california"):
		return "California LSA"
	case containsAny(n, "atlanta", "roswell", "georgia"):
		return "Georgia LSA"
	case containsAny(n, "phoenix", "arizona"):
		return "Arizona LSA"
	case containsAny(n, "houston", "dallas", "texas"):
		return "Texas LSA"
	}
	return ""
}

// RegionForBucket extracts the jurisdiction from a bucket name.
func RegionForBucket(bucket string) (models.Region, bool) {
	b := strings.ToLower(bucket)
	switch {
	case strings.Contains(b, "california"):
		return models.RegionCA, true
	case strings.Contains(b, "arizona"):
		return models.RegionAZ, true
	case strings.Contains(b, "georgia"):
		return models.RegionGA, true
	case strings.Contains(b, "texas"):
		return models.RegionTX, true
	}
	return "", false
}

// RegionForCampaign resolves a campaign to a jurisdiction, falling back to
// name hints. Unresolvable campaigns default to California, the largest
// market.
func (m *Mapper) RegionForCampaign(c models.Campaign) models.Region {
	if b, ok := m.BucketForCampaign(c); ok {
		if r, ok := RegionForBucket(b); ok {
			return r
		}
	}
	n := strings.ToLower(c.Name)
	switch {
	case containsAny(n, "california", " ca ", ":ca", "los angeles", "san diego", "san francisco"):
		return models.RegionCA
	case containsAny(n, "arizona", " az ", ":az", "phoenix", "tucson"):
		return models.RegionAZ
	case containsAny(n, "georgia", " ga ", ":ga", "atlanta"):
		return models.RegionGA
	case containsAny(n, "texas", " tx ", ":tx", "houston", "dallas", "austin"):
		return models.RegionTX
	}
	return models.RegionCA
}

// RegionForLead resolves a lead to a jurisdiction the same way.
func (m *Mapper) RegionForLead(l models.Lead) models.Region {
	if b, ok := m.BucketForLead(l); ok {
		if r, ok := RegionForBucket(b); ok {
			return r
		}
	}
	u := strings.ToLower(l.UTMCampaign)
	switch {
	case containsAny(u, "california", "_ca_", "losangeles", "sandiego"):
		return models.RegionCA
	case containsAny(u, "arizona", "_az_", "phoenix"):
		return models.RegionAZ
	case containsAny(u, "georgia", "_ga_", "atlanta"):
		return models.RegionGA
	case containsAny(u, "texas", "_tx_", "houston", "dallas"):
		return models.RegionTX
	}
	return models.RegionCA
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

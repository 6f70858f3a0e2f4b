package dashboard

import (
	"fmt"

	"github.com/mcordova/intake-dashboard-go/internal/buckets"
	"github.com/mcordova/intake-dashboard-go/internal/forecast"
	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// Settings returns the stored forecast settings, with daily targets
// recomputed for the given month shape so stale splits never leak out.
func (s *Service) Settings() (*models.ForecastSettings, error) {
	settings, err := s.store.LoadSettings()
	if err != nil {
		return nil, err
	}
	shape := forecast.CurrentShape(s.now())
	forecast.RecomputeAll(settings, shape)
	return settings, nil
}

// UpdateSettings persists new targets. Conversion-derived metrics and
// daily splits are recomputed before saving, and cached views built on
// the old targets are dropped.
func (s *Service) UpdateSettings(settings *models.ForecastSettings) (*models.ForecastSettings, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings payload required")
	}
	shape := forecast.CurrentShape(s.now())
	forecast.ApplyConversionRates(settings, shape)
	forecast.RecomputeAll(settings, shape)
	if err := s.store.SaveSettings(settings); err != nil {
		return nil, err
	}
	s.cache.Purge()
	return settings, nil
}

// UpdateRegionTargets replaces one region's monthly totals, leaving every
// other region untouched. Conversion-derived metrics and daily splits are
// rederived for that region only.
func (s *Service) UpdateRegionTargets(r models.Region, targets map[models.Metric]*models.MetricTarget) (*models.ForecastSettings, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown region %q", r)
	}
	settings, err := s.store.LoadSettings()
	if err != nil {
		return nil, err
	}
	for m, t := range targets {
		if t == nil {
			continue
		}
		settings.Target(r, m).MonthlyTotal = t.MonthlyTotal
	}
	forecast.RecomputeRegion(settings, r, forecast.CurrentShape(s.now()))
	if err := s.store.SaveSettings(settings); err != nil {
		return nil, err
	}
	s.cache.Purge()
	return settings, nil
}

// UTMMappings returns the persisted UTM-to-bucket table.
func (s *Service) UTMMappings() (map[string]string, error) {
	return s.store.UTMMappings()
}

// SetUTMMapping adds or updates one mapping and reloads the mapper.
func (s *Service) SetUTMMapping(utm, bucket string) error {
	if utm == "" || bucket == "" {
		return fmt.Errorf("utm_campaign and bucket required")
	}
	if err := s.store.SetUTMMapping(utm, bucket); err != nil {
		return err
	}
	return s.reloadMappings()
}

// DeleteUTMMapping removes one mapping. Reports whether it existed.
func (s *Service) DeleteUTMMapping(utm string) (bool, error) {
	ok, err := s.store.DeleteUTMMapping(utm)
	if err != nil {
		return false, err
	}
	if ok {
		if err := s.reloadMappings(); err != nil {
			return false, err
		}
	}
	return ok, nil
}

// ReplaceUTMMappings swaps the whole table.
func (s *Service) ReplaceUTMMappings(mappings map[string]string) error {
	if err := s.store.ReplaceUTMMappings(mappings); err != nil {
		return err
	}
	return s.reloadMappings()
}

// ResetUTMMappings restores the built-in defaults.
func (s *Service) ResetUTMMappings() error {
	return s.ReplaceUTMMappings(buckets.DefaultUTMMapping)
}

func (s *Service) reloadMappings() error {
	m, err := s.store.UTMMappings()
	if err != nil {
		return err
	}
	s.mapper.SetUTMMapping(m)
	s.cache.Purge()
	return nil
}

// Preferences returns the persisted UI flags.
func (s *Service) Preferences() (models.Preferences, error) {
	return s.store.Preferences()
}

// SetPreferences applies each provided flag individually.
func (s *Service) SetPreferences(updates map[string]bool) (models.Preferences, error) {
	for key, v := range updates {
		if err := s.store.SetPreference(key, v); err != nil {
			return models.Preferences{}, err
		}
	}
	return s.store.Preferences()
}

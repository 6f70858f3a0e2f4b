// Package httpx exposes the dashboard API over chi.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcordova/intake-dashboard-go/internal/dashboard"
	"github.com/mcordova/intake-dashboard-go/internal/models"
	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

func NewRouter(log *slog.Logger, svc *dashboard.Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.Status(r.Context()))
		})

		api.Get("/dashboard-data", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.DashboardData(r.Context(), paramsFrom(r)))
		})

		api.Get("/forecast-settings", func(w http.ResponseWriter, r *http.Request) {
			settings, err := svc.Settings()
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, settings)
		})

		api.Post("/forecast-settings", func(w http.ResponseWriter, r *http.Request) {
			var settings models.ForecastSettings
			if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
				http.Error(w, "invalid settings payload", 400)
				return
			}
			saved, err := svc.UpdateSettings(&settings)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, saved)
		})

		api.Post("/forecast-settings/{region}", func(w http.ResponseWriter, r *http.Request) {
			region := models.Region(chi.URLParam(r, "region"))
			var targets map[models.Metric]*models.MetricTarget
			if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
				http.Error(w, "invalid targets payload", 400)
				return
			}
			saved, err := svc.UpdateRegionTargets(region, targets)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, saved)
		})

		api.Get("/forecast-pacing", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			writeJSON(w, svc.PacingActuals(r.Context(),
				q.Get("start_date"), q.Get("end_date"),
				filtersFrom(r), boolParam(r, "force_refresh")))
		})

		api.Get("/forecast-projections", func(w http.ResponseWriter, r *http.Request) {
			resp, err := svc.Projections(r.Context(), filtersFrom(r), boolParam(r, "force_refresh"))
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, resp)
		})

		api.Get("/forecast-daily-trend", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.DailyTrend(r.Context(), filtersFrom(r), boolParam(r, "force_refresh")))
		})

		api.Get("/comparison-data", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			period := q.Get("period")
			if period == "" {
				period = "mtd"
			}
			writeJSON(w, svc.Comparison(r.Context(), period, q.Get("custom_start"), q.Get("custom_end"), filtersFrom(r)))
		})

		api.Get("/annual-data", func(w http.ResponseWriter, r *http.Request) {
			year, _ := strconv.Atoi(r.URL.Query().Get("year"))
			writeJSON(w, svc.Annual(r.Context(), year, filtersFrom(r), boolParam(r, "force_refresh")))
		})

		api.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			f, err := svc.Export(r.Context(), paramsFrom(r), r.URL.Query().Get("format"))
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			w.Header().Set("Content-Type", f.ContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="`+f.Filename+`"`)
			w.Write(f.Data)
		})

		api.Get("/all-campaigns", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			writeJSON(w, svc.AllCampaigns(r.Context(), q.Get("start_date"), q.Get("end_date")))
		})

		api.Get("/utm-mapping", func(w http.ResponseWriter, r *http.Request) {
			m, err := svc.UTMMappings()
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, m)
		})

		api.Post("/utm-mapping", handleUTMMapping(svc))

		api.Get("/preferences", func(w http.ResponseWriter, r *http.Request) {
			prefs, err := svc.Preferences()
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, prefs)
		})

		api.Put("/preferences", func(w http.ResponseWriter, r *http.Request) {
			var updates map[string]bool
			if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
				http.Error(w, "invalid preferences payload", 400)
				return
			}
			prefs, err := svc.SetPreferences(updates)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, prefs)
		})
	})

	return mux
}

// utmMappingRequest is the mutation envelope for the UTM table.
type utmMappingRequest struct {
	Action      string            `json:"action"`
	UTMCampaign string            `json:"utm_campaign"`
	Bucket      string            `json:"bucket"`
	Mappings    map[string]string `json:"mappings"`
}

func handleUTMMapping(svc *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req utmMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid mapping payload", 400)
			return
		}

		switch req.Action {
		case "update":
			if err := svc.SetUTMMapping(req.UTMCampaign, req.Bucket); err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
		case "delete":
			ok, err := svc.DeleteUTMMapping(req.UTMCampaign)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			if !ok {
				http.Error(w, "mapping not found", 404)
				return
			}
		case "update_all":
			if err := svc.ReplaceUTMMappings(req.Mappings); err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
		case "reset_to_defaults":
			if err := svc.ResetUTMMappings(); err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
		default:
			http.Error(w, "unknown action", 400)
			return
		}

		m, err := svc.UTMMappings()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, map[string]any{"success": true, "mappings": m})
	}
}

func paramsFrom(r *http.Request) dashboard.Params {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return dashboard.Params{
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		Limit:        limit,
		Filters:      filtersFrom(r),
		ForceRefresh: boolParam(r, "force_refresh"),
	}
}

func filtersFrom(r *http.Request) models.LeadFilters {
	return models.LeadFilters{
		IncludeSpam:      boolParam(r, "include_spam"),
		IncludeAbandoned: boolParam(r, "include_abandoned"),
		IncludeDuplicate: boolParam(r, "include_duplicate"),
	}
}

func boolParam(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

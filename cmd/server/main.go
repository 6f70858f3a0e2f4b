package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/buckets"
	"github.com/mcordova/intake-dashboard-go/internal/config"
	"github.com/mcordova/intake-dashboard-go/internal/dashboard"
	"github.com/mcordova/intake-dashboard-go/internal/httpx"
	"github.com/mcordova/intake-dashboard-go/internal/ingest"
	"github.com/mcordova/intake-dashboard-go/internal/jobs"
	"github.com/mcordova/intake-dashboard-go/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	utm, err := st.UTMMappings()
	if err != nil {
		logger.Error("load utm mappings", slog.String("err", err.Error()))
		os.Exit(1)
	}
	if len(utm) == 0 {
		if err := st.ReplaceUTMMappings(buckets.DefaultUTMMapping); err != nil {
			logger.Error("seed utm mappings", slog.String("err", err.Error()))
			os.Exit(1)
		}
		utm = buckets.DefaultUTMMapping
	}

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	svc := dashboard.NewService(
		ingest.NewAdsClient(cl, cfg.AdsURL, logger),
		ingest.NewCRMClient(cl, cfg.CrmURL, logger),
		buckets.NewMapper(nil, utm),
		st,
		store.NewCache(cfg.CacheTTL),
		logger,
	)

	sched := jobs.New(svc, logger)
	if err := sched.Start(cfg.RefreshCron); err != nil {
		logger.Error("start scheduler", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(logger, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", slog.String("err", err.Error()))
	}
}

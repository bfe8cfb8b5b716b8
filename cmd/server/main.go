package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"pass.share/cmd/flags"
	"pass.share/internal/api"
	"pass.share/internal/metrics"
	"pass.share/internal/pages"
	"pass.share/internal/shareapi"
)

func main() {
	app := &cli.App{
		Name:   "pass-share",
		Usage:  "Serve the password sharing pages",
		Flags:  append([]cli.Flag{flags.ConfigFlag}, flags.LogFlags("pass-share")...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	cfg, err := flags.LoadConfig(cCtx)
	if err != nil {
		return err
	}

	logger, err := flags.SetupLogger(cCtx, cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	registry := pages.NewRegistry(pages.Config{
		API:              shareapi.NewClient(cfg.Backend.APIURL, cfg.Backend.Timeout, logger),
		Logger:           logger,
		Metrics:          m,
		Origin:           cfg.Origin(),
		CopyResetDelay:   cfg.UI.CopyResetDelay,
		DisclosurePeriod: cfg.UI.DisclosurePeriod,
		PageTTL:          cfg.UI.PageTTL,
		SweepInterval:    cfg.UI.SweepInterval,
	})
	defer registry.Close()

	router, err := api.SetupRouter(registry, m, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", cfg.Addr()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("api_url", cfg.Backend.APIURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}

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

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"pass.share/cmd/flags"
	"pass.share/config"
	"pass.share/internal/backend"
	"pass.share/internal/store"
)

func main() {
	app := &cli.App{
		Name:   "sharebackend",
		Usage:  "Serve a standalone share API for development and tests",
		Flags:  append([]cli.Flag{flags.ConfigFlag}, flags.LogFlags("sharebackend")...),
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

	st, err := initStore(cfg)
	if err != nil {
		logger.Error("store init failed", zap.Error(err))
		return err
	}
	defer st.Close()

	h := backend.NewHandler(st, cfg.Reference, nil, logger)

	server := &http.Server{
		Addr:         cfg.ReferenceAddr(),
		Handler:      backend.SetupRouter(h, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Share API starting",
			zap.String("addr", cfg.ReferenceAddr()),
			zap.String("store", cfg.Reference.Store.Type),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func initStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Reference.Store.Type {
	case "redis":
		return store.NewRedisStore(&redis.Options{
			Addr:     cfg.Reference.Store.Redis.Addr,
			Password: cfg.Reference.Store.Redis.Password,
			DB:       cfg.Reference.Store.Redis.DB,
		})
	default:
		return store.NewMemoryStore(nil, 30*time.Second), nil
	}
}

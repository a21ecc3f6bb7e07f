package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/config"
	"github.com/JohnDGC/oh-my-glasses/internal/infra"
	"github.com/JohnDGC/oh-my-glasses/internal/router"
	"github.com/JohnDGC/oh-my-glasses/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, syncWorker, alertaWorker := router.New(cfg, db, rdb)

	// Async workers: reconciliation runs and low-stock alert emails. They are
	// registered here (composition root) and fed through Redis queues.
	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueSincronizacion, syncWorker.Process)
	pool.Register(worker.QueueAlerta, alertaWorker.Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	dispatcher := worker.NewDispatcher(rdb)
	worker.StartSincronizacionCron(ctx, dispatcher, time.Duration(cfg.SyncIntervalMinutes)*time.Minute)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("oh-my-glasses backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

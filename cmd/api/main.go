package main

import (
	"context"
	"flag"
	"fmt"
	"healthwatch/config"
	"healthwatch/internals/app"
	"healthwatch/internals/server"
	"healthwatch/pkg/db"
	"healthwatch/pkg/logger"
	"log"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "env.yaml", "path to the yaml config file")
	flag.Parse()

	// Load envs
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Done is closed on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	// Initialize DB Pool
	dbPool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize db pool")
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	// Inject Dependencies
	container, err := app.NewContainer(ctx, dbPool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Msg("dependencies initialized")

	// background work
	app.StartConsumer(ctx, container)
	container.Scheduler.Start()

	// Register Routes
	router := app.RegisterRoutes(container)

	// Start HTTP Server -> Runs in a seperate goroutines in background and receive requests
	srv := server.New(fmt.Sprintf(":%d", cfg.Port), router, cfg.HTTP.ShutdownTimeout, log)
	srv.Start()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting requests)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Shutdown background workers & infra
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
}

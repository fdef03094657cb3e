package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidyhaus/scheduling-service/internal/auth"
	"github.com/tidyhaus/scheduling-service/internal/config"
	"github.com/tidyhaus/scheduling-service/internal/db"
	"github.com/tidyhaus/scheduling-service/internal/excel"
	httphandler "github.com/tidyhaus/scheduling-service/internal/http"
	"github.com/tidyhaus/scheduling-service/internal/http/middleware"
	"github.com/tidyhaus/scheduling-service/internal/logger"
	"github.com/tidyhaus/scheduling-service/internal/repository"
	"github.com/tidyhaus/scheduling-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	contractRepo := repository.NewContractRepository(database)
	instanceRepo := repository.NewInstanceRepository(database)
	rosterGenerator := excel.NewGenerator()

	generationService := service.NewGenerationService(contractRepo, instanceRepo, rosterGenerator, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule.SweepEnabled {
		go func() {
			if err := generationService.RunSweep(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("generation sweep exited")
			}
		}()
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(generationService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting scheduling service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

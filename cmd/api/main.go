package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/download"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/jobs"
	"server/internal/providers/gamma"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	files, err := storage.NewFileStore(cfg.DownloadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare download directory")
	}

	provider := gamma.NewClient(gamma.Options{
		APIKey:  cfg.GammaAPIKey,
		BaseURL: cfg.GammaBaseURL,
		Logger:  &logger,
	})
	downloads := download.NewManager(files, nil)

	store := jobs.NewStore(cfg.JobRetentionTTL)
	runner := jobs.NewRunner(store, provider, downloads, jobs.Options{
		PollInterval:    cfg.PollInterval,
		Timeout:         cfg.GenerationTimeout,
		MaxPollFailures: cfg.MaxPollFailures,
		Logger:          &logger,
	})

	app := handlers.NewApp(logger, store, runner, files)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

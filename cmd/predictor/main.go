package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/cache"
	"github.com/sawdustofmind/nfe-predictor/internal/config"
	"github.com/sawdustofmind/nfe-predictor/internal/fixtures"
	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/prediction"
	"github.com/sawdustofmind/nfe-predictor/internal/server"
	"github.com/sawdustofmind/nfe-predictor/internal/session"
)

func run(cfg *config.Config) int {
	log.Info("Starting Predictor Service",
		zap.String("port", cfg.Server.Port),
		zap.Bool("fixtures_key", cfg.Fixtures.APIKey != ""),
		zap.Bool("prediction_key", cfg.Prediction.APIKey != ""),
		zap.String("model", cfg.Prediction.Model),
	)
	if cfg.Fixtures.APIKey == "" {
		log.Warn("FOOTBALL_DATA_API_KEY not set, sessions will use sample fixtures")
	}
	if cfg.Prediction.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY not set, predictions will fail")
	}

	var fixtureCache fixtures.Cache
	if cfg.Redis.Addr != "" {
		c, err := cache.NewFixtureCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Error("Failed to initialize fixture cache", zap.Error(err))
			return 1
		}
		defer func() {
			if err := c.Close(); err != nil {
				log.Error("Failed to close fixture cache", zap.Error(err))
			}
		}()
		fixtureCache = c
	}

	fixtureService := fixtures.NewService(
		fixtures.NewClient(cfg.Fixtures.BaseURL, cfg.Fixtures.APIKey, cfg.Fixtures.Timeout, cfg.Fixtures.Limit),
		fixtureCache,
	)
	predictor := prediction.NewClient(prediction.Options{
		BaseURL:     cfg.Prediction.BaseURL,
		APIKey:      cfg.Prediction.APIKey,
		Model:       cfg.Prediction.Model,
		Temperature: cfg.Prediction.Temperature,
		MaxTokens:   cfg.Prediction.MaxTokens,
		TopP:        cfg.Prediction.TopP,
		Timeout:     cfg.Prediction.Timeout,
		SiteName:    cfg.Site.Name,
		SiteURL:     cfg.Site.URL,
	})
	sessions := session.NewManager(fixtureService, predictor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.RunEvictor(ctx, time.Minute, cfg.Server.SessionIdleTTL)

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(sessions, cfg.Server.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Predictor service listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Info("Shutdown signal received, stopping server")
	case <-errChan:
		return 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
	}
	log.Info("Predictor service stopped")
	return 0
}

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file")
	port := flag.String("port", "", "Port to listen on, overrides the config")
	dev := flag.Bool("dev", false, "Human readable development logging")
	flag.Parse()

	// Initialize global logger
	if err := log.Init(*dev); err != nil {
		panic(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	code := run(cfg)
	_ = log.Sync()
	os.Exit(code)
}

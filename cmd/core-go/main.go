package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/db"
	"mapmycampus/core-go/internal/httpapi"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/routing"
)

func main() {
	_ = godotenv.Load()

	addr := envOr("HTTP_ADDR", ":8081")
	logLevel := envOr("LOG_LEVEL", "info")
	databaseURL := envOr("DATABASE_URL", "")
	campusConfig := envOr("CAMPUS_CONFIG", "configs/campus.yaml")
	layoutConfig := envOr("LAYOUT_CONFIG", "")
	routingURL := envOr("ROUTING_URL", routing.DefaultBaseURL)

	logger := httpapi.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, violations, err := campus.Load(campusConfig)
	if err != nil {
		logger.Fatal().Err(err).Str("path", campusConfig).Msg("failed to load campus config")
	}
	for _, v := range violations {
		logger.Warn().Str("path", campusConfig).Msg("dropped config entity: " + v.String())
	}

	var layout *campus.Layout
	if layoutConfig != "" {
		l, layoutViolations, err := campus.LoadLayout(layoutConfig)
		if err != nil {
			logger.Fatal().Err(err).Str("path", layoutConfig).Msg("failed to load layout config")
		}
		for _, v := range layoutViolations {
			logger.Warn().Str("path", layoutConfig).Msg("dropped layout entity: " + v.String())
		}
		layout = l
	}

	var pool *db.Pool
	if databaseURL != "" {
		p, err := db.Open(ctx, databaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer p.Close()
		if err := p.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare journal schema")
		}
		pool = p
	}

	h := httpapi.NewHandler(logger, httpapi.Options{
		Model:   model,
		Layout:  layout,
		Pool:    pool,
		Metrics: metrics.New(),
		Router:  routing.NewClient(routing.ClientOptions{BaseURL: routingURL}),
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("core-go listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	h.CloseSessions()
	logger.Info().Msg("shutdown complete")
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// Command server runs the HTTP backend for the English practice app: the
// conversation log, vocabulary notebook, progress tracking, settings, and
// the upstream tutor integration.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/speakeng/go-tutor-backend/internal/config"
	httpapi "github.com/speakeng/go-tutor-backend/internal/http"
	"github.com/speakeng/go-tutor-backend/internal/observability"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/speech"
	"github.com/speakeng/go-tutor-backend/internal/sysutil"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	tutorClient := tutor.New(tutor.Config{
		APIKey:  cfg.Tutor.APIKey,
		BaseURL: cfg.Tutor.BaseURL,
		Model:   cfg.Tutor.Model,
		Timeout: cfg.Tutor.Timeout,
	})
	if cfg.Tutor.APIKey == "" {
		log.Warn().Msg("TUTOR_API_KEY is not set; conversation turns will fail until it is configured")
	}

	// Speech engines live on the client device. The server carries the
	// contract and reports both capabilities as unsupported.
	bridge := speech.NewBridge(nil, nil)

	// Expired idempotency rows are junk after their TTL; sweep hourly.
	purgeDone := make(chan struct{})
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-purgeDone:
				return
			case now := <-t.C:
				if err := repo.PurgeExpiredIdempotency(ctx, db, now); err != nil {
					log.Warn().Err(err).Msg("idempotency purge failed")
				}
			}
		}
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, tutorClient, bridge, cfg)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	close(purgeDone)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	convapi "github.com/aliskhannn/vr180-converter/internal/api/handlers/convert"
	"github.com/aliskhannn/vr180-converter/internal/api/handlers/health"
	"github.com/aliskhannn/vr180-converter/internal/api/router"
	"github.com/aliskhannn/vr180-converter/internal/api/server"
	"github.com/aliskhannn/vr180-converter/internal/config"
	"github.com/aliskhannn/vr180-converter/internal/ffmpeg"
	"github.com/aliskhannn/vr180-converter/internal/infra/kafka/producer"
	"github.com/aliskhannn/vr180-converter/internal/preview"
	convertsvc "github.com/aliskhannn/vr180-converter/internal/service/convert"
	"github.com/aliskhannn/vr180-converter/internal/storage/file"
	"github.com/aliskhannn/vr180-converter/internal/storage/object"
)

const defaultConfigPath = "./config/config.yml"

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfgPath := os.Getenv("VR180_CONFIG")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg := config.MustLoad(cfgPath)

	// Retry strategy for Kafka and MinIO calls.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Local staging area for uploads and results.
	storage, err := file.NewStorage(cfg.Storage.UploadsDir, cfg.Storage.ResultsDir)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to prepare storage directories")
	}

	// ffmpeg is resolved per run; a missing binary only fails conversions.
	tool := ffmpeg.New(&cfg.FFmpeg)
	if missing := tool.Missing(); len(missing) > 0 {
		zlog.Logger.Warn().Strs("missing", missing).Msg("conversion tools not found on PATH")
	}

	var opts []convertsvc.Option

	// Optional result mirror (MinIO).
	if cfg.Mirror.Enabled {
		mirror, err := object.NewStorage(ctx, &cfg.Mirror, strategy)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to object storage")
		}
		opts = append(opts, convertsvc.WithMirror(mirror))
	}

	// Optional conversion events (Kafka).
	var p *producer.Producer
	if cfg.Events.Enabled {
		p = producer.New(&cfg.Events, strategy)
		opts = append(opts, convertsvc.WithEvents(p))
	}

	service := convertsvc.NewService(storage, tool, opts...)
	posters := preview.New(tool, &cfg.Preview)

	// HTTP handlers.
	convHandler := convapi.NewHandler(service, storage, posters, cfg.Server.MaxUploadBytes())
	healthHandler := health.NewHandler(tool)

	// Start HTTP server in a separate goroutine.
	r := router.Setup(convHandler, healthHandler)
	s := server.New(&cfg.Server, r)
	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()
	zlog.Logger.Info().Msg("context done")

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Close Kafka producer client.
	if p != nil {
		if err := p.Client.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close kafka producer client")
		}
	}
}

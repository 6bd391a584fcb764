package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/config"
	fontservice "github.com/typeshelf/typeshelf/backend/go-services/internal/font/service"
	groupservice "github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup/service"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/server"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// LOG_LEVEL from the environment covers config loading; the config value wins afterwards
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := server.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open backends: %v", err)
	}
	defer backends.Close(context.Background())

	groups := groupservice.New(backends.Groups)
	fonts := fontservice.New(backends.Store, fontservice.Options{
		MaxBytes:       cfg.Storage.MaxUploadBytes,
		RestrictDelete: cfg.Storage.DeletePolicy == config.DeleteRestrict,
		References:     groups,
		Locker:         backends.FontLock,
	})

	verifier, err := server.NewVerifier(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize token verifier: %v", err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := server.NewRouter(cfg, server.Deps{
		Fonts:    fonts,
		Groups:   groups,
		Verifier: verifier,
		Redis:    backends.Redis,
		Ready:    backends.Ready,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("config summary: storage=%s groups=%s lock=%s delete_policy=%s redis=%v auth=%v",
		cfg.Storage.Backend, cfg.Groups.Backend, cfg.Groups.Lock, cfg.Storage.DeletePolicy,
		backends.Redis != nil, verifier != nil)

	errc := make(chan error, 1)
	go func() {
		logger.Infof("starting typeshelf on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown: %v", err)
	}
}

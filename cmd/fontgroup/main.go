// Command fontgroup serves only the font group API, for deployments that keep
// font files elsewhere.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/config"
	groupservice "github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup/service"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/server"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/metrics"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	// FONTGROUP_PORT lets this run next to the full service on one host
	if p := os.Getenv("FONTGROUP_PORT"); p != "" {
		cfg.Server.Port = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := server.OpenGroupBackends(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open group store: %v", err)
	}
	defer backends.Close(context.Background())

	verifier, err := server.NewVerifier(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize token verifier: %v", err)
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := server.NewRouter(cfg, server.Deps{
		Groups:   groupservice.New(backends.Groups),
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

	go func() {
		logger.Infof("font group service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server failed: %v", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

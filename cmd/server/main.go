package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
	"github.com/BerylCAtieno/a2a-wire/internal/config"
	"github.com/BerylCAtieno/a2a-wire/internal/executor"
	"github.com/BerylCAtieno/a2a-wire/internal/handler"
	"github.com/BerylCAtieno/a2a-wire/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("A2A agent starting",
		"addr", server.Addr,
		"rpc", "http://localhost:"+cfg.Port+cfg.RPCPath,
		"agent_card", cfg.AgentCardPath != "",
	)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogging(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	h := handler.New(
		executor.NewEcho(a2a.DefaultGenerator, logger),
		handler.WithNotifier(executor.NewLogNotifier(logger)),
		handler.WithAgentCard(cfg.AgentCardPath),
		handler.WithLogger(logger),
	)
	h.Register(router, cfg.RPCPath)
	return router
}

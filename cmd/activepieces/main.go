package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	app "github.com/liuhuapiaoyuan/activepieces"
	"github.com/liuhuapiaoyuan/activepieces/internal/config"
	"github.com/liuhuapiaoyuan/activepieces/internal/events"
	"github.com/liuhuapiaoyuan/activepieces/internal/flow"
	"github.com/liuhuapiaoyuan/activepieces/internal/project"
	"github.com/liuhuapiaoyuan/activepieces/internal/server"
	"github.com/liuhuapiaoyuan/activepieces/pkg/log"
)

type service struct {
	cfg        *config.Config
	rdb        *redis.Client
	hub        *events.Hub
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	_ = godotenv.Load()

	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &service{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *service) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	logger := log.New(log.Options{
		Service: app.Name,
		Env:     os.Getenv("ENV"),
		Version: app.Version,
		Level:   level,
	})
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)
}

func (s *service) run() error {
	s.rdb = redis.NewClient(&redis.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	})
	if err := s.rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.hub = events.NewHub()
	notifier := events.Broadcast{
		events.NewPublisher(s.rdb, s.cfg.EventChannel),
		s.hub,
	}

	store := flow.NewStore(s.rdb, s.cfg.Redis.Prefix)
	flows := flow.NewService(
		store, notifier, flow.WithConflictWindow(s.cfg.ConflictWindow),
	)
	projects := project.NewService(s.rdb, s.cfg.Redis.Prefix)

	s.apiServer = server.NewServer(
		flows, projects, s.hub, []byte(s.cfg.JWTSecret),
	)
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *service) startServer() {
	addr := fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.apiServer.SetupRoutes(),
	}

	go func() {
		slog.Info("API server listening", slog.String("addr", addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("API server failed", log.Error(err))
			s.quit <- syscall.SIGTERM
		}
	}()
}

func (s *service) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Failed to stop API server", log.Error(err))
	}
	if err := s.rdb.Close(); err != nil {
		slog.Error("Failed to close redis client", log.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MisterGoldie/wargame/internal/cache"
	"github.com/MisterGoldie/wargame/internal/config"
	"github.com/MisterGoldie/wargame/internal/database"
	"github.com/MisterGoldie/wargame/internal/profile"
	"github.com/MisterGoldie/wargame/internal/server"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	srv := server.New(log, cfg.Rules())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Peripherals are optional: the game is fully playable from the token
	// alone, so a missing database or Redis only disables stats or history.
	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Warn("database unavailable, stats disabled")
		} else {
			defer store.Close()
			if err := store.EnsureSchema(ctx); err != nil {
				log.WithError(err).Warn("schema setup failed, stats disabled")
			} else {
				srv.Stats = store
				log.Info("stats store connected")
			}
		}
	}

	if cfg.RedisURL != "" {
		history, err := cache.NewHistory(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, history disabled")
		} else if err := history.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unreachable, history disabled")
			_ = history.Close()
		} else {
			defer history.Close()
			srv.History = history
			log.Info("move historian connected")
		}
	}

	if cfg.ProfileAPIURL != "" {
		pc := cache.NewProfileCache(cfg.ProfileCacheTTL, cfg.ProfileCacheAttempts)
		srv.Profiles = profile.New(cfg.ProfileAPIURL, pc, log)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("war server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}

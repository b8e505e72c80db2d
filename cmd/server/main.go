package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"rental-ops-backend/internal/api/routes"
	"rental-ops-backend/internal/config"
	"rental-ops-backend/internal/realtime"
	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/database"
	"rental-ops-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Disconnect(db.Client())

	redisClient := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	defer redisClient.Close()

	repos := repository.NewSet(db)

	snapshotStore := snapshot.NewStore(repos.Sources())
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := snapshotStore.Refresh(refreshCtx); err != nil {
		// Serving starts anyway; the watcher refreshes once Mongo is back.
		logrus.WithError(err).Warn("initial snapshot load failed")
	}
	cancel()

	manager := realtime.NewManager(cfg.AllowedOrigins)
	if err := manager.Start(); err != nil {
		logrus.WithError(err).Fatal("failed to start realtime manager")
	}
	defer manager.Stop()

	watcher := realtime.NewWatcher(db, manager, snapshotStore)
	go watcher.Run(ctx)

	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	routes.SetupRoutes(router, routes.Deps{
		DB:          db,
		RedisClient: redisClient,
		Snapshot:    snapshotStore,
		Manager:     manager,
		Repos:       repos,
		Config:      cfg,
		DefaultCity: defaultCity(cfg.DefaultCityID),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Protocol"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-RateLimit-Limit", "Retry-After"},
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = allowedOrigins
		c.AllowCredentials = true
	}
	return c
}

// defaultCity parses the configured import fallback city, defaulting to 1.
func defaultCity(raw string) int64 {
	if raw == "" {
		return 1
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logrus.WithField("value", raw).Warn("invalid DEFAULT_CITY_ID, using 1")
		return 1
	}
	return id
}

// Package main is the entry point for the sensores dashboard HTTP server.
package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/chart"
	"github.com/sebasr/sensores-dashboard/internal/config"
	"github.com/sebasr/sensores-dashboard/internal/database"
	"github.com/sebasr/sensores-dashboard/internal/repository"
	"github.com/sebasr/sensores-dashboard/internal/server"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.New(&cfg.Mongo)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Error("Error closing MongoDB connection")
		}
	}()

	logrus.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	gateway := store.NewMongoGateway(db.Database())

	var queryCache cache.QueryCache
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		queryCache = cache.NewRedisCache(client, cfg.Cache.TTL)
		logrus.WithField("addr", cfg.Cache.RedisAddr).Info("Query cache backed by Redis")
	default:
		queryCache = cache.NewMemoryCache(cfg.Cache.TTL)
		logrus.Info("Query cache backed by process memory")
	}

	deps := &server.Dependencies{
		Config:   cfg,
		Reader:   binding.NewReader(gateway, queryCache),
		Mutator:  binding.NewMutator(gateway, queryCache),
		Exporter: chart.NewExporter(cfg.Export.Dir),
		UserRepo: repository.NewStoreUserRepository(gateway),
		Health:   db,
	}

	srv := server.New(deps)

	logrus.WithField("port", cfg.Server.Port).Info("Starting server")
	if err := srv.Run(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Error("Server stopped")
		panic(err) // panic instead of Fatal so the deferred close runs
	}
}

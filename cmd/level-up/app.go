package main

import (
	"context"
	"os"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/config"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/leaderboard"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
	"github.com/redis/go-redis/v9"
)

// loadEnvOrExit reads the environment and installs the configured logger.
func loadEnvOrExit() *config.Env {
	env, err := config.LoadEnv(flagEnvFile)
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	if err := logging.Init(logging.Config{Level: env.LogLevel, Encoding: env.LogEncoding}); err != nil {
		logging.Fatal("Failed to initialize logger", err, nil)
	}
	return env
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid game configuration", err, logging.Fields{"config_path": path, "hint": "level-up.yaml may override server.address, realm, spawn, alliance and the quests/titles/perks/monsters catalogs"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}

// createBoard returns the Redis leaderboard when REDIS_ADDR is set, warmed
// from the database. Otherwise the database ranks players directly.
func createBoard(ctx context.Context, addr string, repo storage.Repository) (leaderboard.Board, *redis.Client) {
	if addr == "" {
		return leaderboard.NewRepositoryBoard(repo), nil
	}
	client, err := leaderboard.NewRedisClient(ctx, addr)
	if err != nil {
		logging.Fatal("Failed to connect to redis", err, logging.Fields{constants.LogFieldAddr: addr})
	}
	board := leaderboard.NewRedisBoard(client)
	n, err := leaderboard.Warm(ctx, board, repo)
	if err != nil {
		logging.Error("Failed to warm leaderboard", err, nil)
	} else {
		logging.Info("Leaderboard warmed", logging.Fields{constants.LogFieldCount: n})
	}
	return board, client
}

// warnMissingEnv reports unset variables. The matching login flow answers
// 500 until they are provided.
func warnMissingEnv(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Warn("Environment variable not set", logging.Fields{"var": v})
		}
	}
}

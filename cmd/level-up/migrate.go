package main

import (
	"context"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Long:  `Migrate applies the schema to LEVELUP_DB. When REDIS_ADDR is set it also reloads the leaderboard from the database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := loadEnvOrExit()
		defer logging.Sync()

		repo := createRepositoryOrExit(env.DBPath)
		logging.Info("Database migrated", logging.Fields{"db": env.DBPath})

		if env.RedisAddr != "" {
			_, client := createBoard(context.Background(), env.RedisAddr, repo)
			defer client.Close()
			logging.Info("Leaderboard reloaded", logging.Fields{constants.LogFieldAddr: env.RedisAddr})
		}
		return nil
	},
}

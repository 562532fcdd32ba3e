package main

import (
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/version"
	"github.com/spf13/cobra"
)

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:     "level-up",
	Short:   "Level Up gamification backend",
	Long:    `Level Up turns everyday tasks into quests: experience, titles, perks, a realm to build and alliances to keep streaks with.`,
	Version: version.Version,
	// Running the binary without a subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	serveFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

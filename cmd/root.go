package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/config"
	"github.com/abhisek/pagequiz/internal/logging"
	"github.com/abhisek/pagequiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pagequiz",
	Short: "Page memorisation quizzes in the terminal",
	Long:  "pagequiz builds multiple-choice quizzes from Mushaf pages, tracks XP and levels, and unlocks pages and reciters in a diamond shop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PAGEQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides PAGEQUIZ_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PAGEQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads configuration and opens the database for a CLI command.
// Logs go to stderr.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, zerolog.Logger, error) {
	log := zerolog.Nop()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, log, err
	}
	log = logging.Console(cfg.LogLevel)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, log, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, log, fmt.Errorf("open database: %w", err)
	}
	log.Debug().Str("db", dbPath).Msg("database opened")
	return s, cfg, log, nil
}

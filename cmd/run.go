package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/app"
	"github.com/abhisek/pagequiz/internal/config"
	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/leaderboard"
	"github.com/abhisek/pagequiz/internal/logging"
	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	log, closer, err := logging.File(logPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	engine := progression.NewEngine(st, log)
	if err := engine.Initialize(ctx); err != nil {
		return fmt.Errorf("load progression config: %w", err)
	}
	log.Info().Str("origin", string(engine.Origin())).Msg("progression config loaded")

	catalog, err := st.FetchQuestionCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load question catalog: %w", err)
	}

	board, closeBoard := openBoard(ctx, cfg, st, log)
	defer closeBoard()

	env := &screen.Env{
		Players:      st,
		Results:      st,
		Items:        st,
		Progression:  engine,
		Catalog:      catalog,
		Content:      content.NewCachedSource(content.NewClient(cfg.ContentURL, cfg.HTTPTimeout), st, log),
		Board:        board,
		Achievements: achievements.NewEvaluator(st, log),
		Log:          log,
	}

	return app.Run(env)
}

// openBoard returns the Redis leaderboard when PAGEQUIZ_REDIS_URL is set and
// reachable, and the SQLite board otherwise. The Redis set is rebuilt from the
// player table on every open.
func openBoard(ctx context.Context, cfg *config.Config, st *store.Store, log zerolog.Logger) (leaderboard.Board, func()) {
	if cfg.RedisURL == "" {
		return leaderboard.NewSQLBoard(st), func() {}
	}
	rb, err := leaderboard.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis leaderboard unavailable, using database ranking")
		return leaderboard.NewSQLBoard(st), func() {}
	}
	n, err := rb.Sync(ctx, st)
	if err != nil {
		log.Warn().Err(err).Msg("redis leaderboard sync failed, using database ranking")
		rb.Close()
		return leaderboard.NewSQLBoard(st), func() {}
	}
	log.Debug().Int("players", n).Msg("redis leaderboard synced")
	return rb, func() {
		if err := rb.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close redis:", err)
		}
	}
}

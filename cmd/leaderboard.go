package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by XP",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, cfg, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		board, closeBoard := openBoard(cmd.Context(), cfg, st, log)
		defer closeBoard()

		entries, err := board.Top(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No players yet.")
			return nil
		}

		fmt.Printf("%4s  %-40s  %8s\n", "Rank", "Player", "XP")
		fmt.Println(strings.Repeat("─", 56))
		for _, e := range entries {
			fmt.Printf("%4d  %-40s  %8d\n", e.Rank, e.Username, e.XP)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Int("limit", leaderboard.DefaultSize, "Number of players to show")
}

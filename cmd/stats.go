package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/progression"
)

var statsCmd = &cobra.Command{
	Use:   "stats [username]",
	Short: "Show dashboard totals, or one player's statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, _, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 0 {
			d, err := st.Dashboard(ctx)
			if err != nil {
				return fmt.Errorf("query dashboard: %w", err)
			}
			fmt.Printf("Players:        %d\n", d.TotalPlayers)
			fmt.Printf("Quizzes taken:  %d\n", d.TotalQuizzes)
			fmt.Printf("Average score:  %.1f correct per quiz\n", d.AverageScore)
			return nil
		}

		p, err := st.FindByUsername(ctx, args[0])
		if err != nil {
			return fmt.Errorf("find player %q: %w", args[0], err)
		}
		ps, err := st.StatsForPlayer(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		engine := progression.NewEngine(st, log)
		if err := engine.Initialize(ctx); err != nil {
			return fmt.Errorf("load progression config: %w", err)
		}
		info := engine.LevelInfo(p.XP)

		fmt.Printf("%s (%s)\n", p.Username, p.Role)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Level:     %d %s (%.0f%%)\n", info.Level, info.Title, info.ProgressPercent)
		fmt.Printf("XP:        %d\n", p.XP)
		fmt.Printf("Diamonds:  %d\n", p.Diamonds)
		fmt.Printf("Quizzes:   %d\n", ps.Quizzes)
		fmt.Printf("Accuracy:  %.1f%% (%d/%d)\n", ps.Accuracy(), ps.Correct, ps.TotalQuestions)
		fmt.Printf("Pages:     %s\n", joinInts(p.AvailablePages()))
		fmt.Printf("Reciters:  %s\n", strings.Join(p.AvailableReciters(), ", "))

		recent, err := st.RecentResults(ctx, p.ID, 5)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println("\nRecent quizzes:")
			for _, r := range recent {
				fmt.Printf("  %s  page %d  %d/%d  +%d XP\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"), r.SubjectID, r.Score, r.TotalQuestions, r.ExperienceEarned)
			}
		}

		unlocked, err := achievements.NewEvaluator(st, log).Unlocked(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("query achievements: %w", err)
		}
		if len(unlocked) > 0 {
			fmt.Println("\nAchievements:")
			for _, a := range unlocked {
				fmt.Printf("  %s  %s\n", a.Title, a.Description)
			}
		}
		return nil
	},
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

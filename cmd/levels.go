package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/progression"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level table and question quotas",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := progression.NewEngine(st, log)
		if err := engine.Initialize(cmd.Context()); err != nil {
			return fmt.Errorf("load progression config: %w", err)
		}

		if cmd.Flags().Changed("xp") {
			xp, _ := cmd.Flags().GetInt("xp")
			info := engine.LevelInfo(xp)
			fmt.Printf("XP %d → level %d (%s), %.0f%% to next level (%d/%d)\n",
				xp, info.Level, info.Title, info.ProgressPercent, xp, info.NextLevelXP)
			fmt.Printf("Questions per quiz: %d\n", engine.MaxQuestionsForLevel(info.Level))
			return nil
		}

		fmt.Printf("Config source: %s\n\n", engine.Origin())
		fmt.Printf("%5s  %-24s  %9s  %8s  %9s\n", "Level", "Title", "XP", "Diamonds", "Questions")
		fmt.Println(strings.Repeat("─", 63))
		for _, l := range engine.Levels() {
			fmt.Printf("%5d  %-24s  %9d  %8d  %9d\n",
				l.Level, l.Title, l.XPRequired, l.DiamondsReward, engine.MaxQuestionsForLevel(l.Level))
		}

		r := engine.Rules()
		fmt.Printf("\nXP per correct answer: %d\n", r.XPPerCorrectAnswer)
		fmt.Printf("Perfect quiz bonus: %d XP, %d diamonds\n", r.XPBonusAllCorrect, r.DiamondsBonusAllCorrect)
		if r.DailyQuizzesGoal > 0 {
			fmt.Printf("Daily goal: %d quizzes for %d XP\n", r.DailyQuizzesGoal, r.DailyQuizzesBonusXP)
		}
		return nil
	},
}

func init() {
	levelsCmd.Flags().Int("xp", 0, "Show the level reached with this much XP")
}

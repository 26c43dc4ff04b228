package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/store"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage players",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all players",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		players, err := st.ListPlayers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		if len(players) == 0 {
			fmt.Println("No players yet.")
			return nil
		}

		fmt.Printf("%-36s  %-24s  %-5s  %8s  %8s  %7s  %s\n",
			"ID", "Username", "Role", "XP", "Diamonds", "Quizzes", "Joined")
		fmt.Println(strings.Repeat("─", 112))
		for _, p := range players {
			name := truncateName(p.Username, 24)
			role := "user"
			if p.IsAdmin() {
				role = "admin"
			}
			fmt.Printf("%-36s  %-24s  %-5s  %8d  %8d  %7d  %s\n",
				p.ID, name, role, p.XP, p.Diamonds, p.TotalQuizzesCompleted,
				p.CreatedAt.Local().Format("2006-01-02"))
		}
		fmt.Printf("\n%d players\n", len(players))
		return nil
	},
}

var playersEditCmd = &cobra.Command{
	Use:   "edit <username>",
	Short: "Change a player's name, XP, diamonds or role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var upd store.AdminUpdate
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			upd.Username = &v
		}
		if cmd.Flags().Changed("xp") {
			v, _ := cmd.Flags().GetInt("xp")
			upd.XP = &v
		}
		if cmd.Flags().Changed("diamonds") {
			v, _ := cmd.Flags().GetInt("diamonds")
			upd.Diamonds = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			role := player.Role(v)
			upd.Role = &role
		}
		if upd == (store.AdminUpdate{}) {
			return fmt.Errorf("nothing to change: pass --name, --xp, --diamonds or --role")
		}

		st, cfg, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.UpdatePlayerByAdmin(ctx, args[0], upd)
		if err != nil {
			return fmt.Errorf("update player %q: %w", args[0], err)
		}

		// Opening the board rebuilds the Redis ranking from the player table.
		_, closeBoard := openBoard(ctx, cfg, st, log)
		closeBoard()

		fmt.Printf("Updated %s: XP %d, diamonds %d, role %s\n", p.Username, p.XP, p.Diamonds, p.Role)
		return nil
	},
}

// truncateName shortens name to at most width terminal cells without
// splitting a character.
func truncateName(name string, width int) string {
	return ansi.Truncate(name, width, "...")
}

func init() {
	playersEditCmd.Flags().String("name", "", "New username")
	playersEditCmd.Flags().Int("xp", 0, "New XP total")
	playersEditCmd.Flags().Int("diamonds", 0, "New diamond balance")
	playersEditCmd.Flags().String("role", "", "New role (user or admin)")

	playersCmd.AddCommand(playersListCmd)
	playersCmd.AddCommand(playersEditCmd)
}

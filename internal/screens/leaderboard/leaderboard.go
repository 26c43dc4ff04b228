package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/leaderboard"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

type entriesMsg struct {
	Entries []leaderboard.Entry
	Err     error
}

// LeaderboardScreen shows the top players by XP.
type LeaderboardScreen struct {
	env     *screen.Env
	entries []leaderboard.Entry
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)

// New creates a LeaderboardScreen.
func New(env *screen.Env) *LeaderboardScreen {
	return &LeaderboardScreen{env: env}
}

func (l *LeaderboardScreen) Init() tea.Cmd {
	board := l.env.Board
	return func() tea.Msg {
		entries, err := board.Top(context.Background(), leaderboard.DefaultSize)
		return entriesMsg{Entries: entries, Err: err}
	}
}

func (l *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (l *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(entriesMsg); ok {
		l.loaded = true
		if msg.Err != nil {
			l.env.Log.Warn().Err(msg.Err).Msg("load leaderboard")
			l.errMsg = "The leaderboard is unavailable right now."
			return l, nil
		}
		l.entries = msg.Entries
	}
	return l, nil
}

func (l *LeaderboardScreen) View(width, height int) string {
	switch {
	case !l.loaded:
		return "\n\n" + layout.Centered(theme.Hint.Render("Loading..."), width)
	case l.errMsg != "":
		return "\n\n" + layout.Centered(theme.Incorrect.Render(l.errMsg), width)
	case len(l.entries) == 0:
		return "\n\n" + layout.Centered(theme.Hint.Render("No players yet."), width)
	}

	me := ""
	if l.env.Player != nil {
		me = l.env.Player.Username
	}

	rows := []string{theme.Muted.Render(fmt.Sprintf("%4s  %-24s %8s", "#", "Player", "XP"))}
	for _, e := range l.entries {
		line := fmt.Sprintf("%4d  %-24s %8d", e.Rank, e.Username, e.XP)
		switch {
		case strings.EqualFold(e.Username, me):
			rows = append(rows, theme.Selected.Render(line))
		case e.Rank <= 3:
			rows = append(rows, theme.Verse.Render(line))
		default:
			rows = append(rows, theme.Unselected.Render(line))
		}
	}
	return "\n" + layout.Centered(strings.Join(rows, "\n"), width)
}

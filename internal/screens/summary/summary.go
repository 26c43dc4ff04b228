package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/ui/components"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

// SummaryScreen displays the outcome of a finished quiz.
type SummaryScreen struct {
	env    *screen.Env
	result *sess.Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(env *screen.Env, result *sess.Result) *SummaryScreen {
	return &SummaryScreen{env: env, result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return ""
	}
	rules := s.env.Progression.Rules()

	var lines []string
	title := "Quiz complete!"
	if res.Perfect {
		title = "Perfect score!"
	}
	lines = append(lines,
		theme.Title.Render(title),
		"",
		theme.Body.Render(fmt.Sprintf("Score: %d / %d", res.Score, res.TotalQuestions)),
		theme.Verse.Render(fmt.Sprintf("+%d XP   +%d ◆", res.ExperienceEarned, res.DiamondsEarned)),
	)

	var bonuses []string
	if res.Perfect {
		bonuses = append(bonuses, fmt.Sprintf("perfect bonus +%d XP", rules.XPBonusAllCorrect))
	}
	if res.DailyGoalReached {
		bonuses = append(bonuses, fmt.Sprintf("daily goal reached +%d XP", rules.DailyQuizzesBonusXP))
	}
	if len(bonuses) > 0 {
		lines = append(lines, theme.Muted.Render(strings.Join(bonuses, ", ")))
	}
	lines = append(lines, "")

	if up := res.LevelUp; up != nil {
		lines = append(lines,
			theme.Correct.Render(fmt.Sprintf("Level up! You reached level %d · %s", up.Level, up.Title)),
		)
		if up.Reward > 0 {
			lines = append(lines, theme.Verse.Render(fmt.Sprintf("Level reward: %d ◆", up.Reward)))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		theme.Body.Render(fmt.Sprintf("Level %d · %s", res.Level.Level, res.Level.Title)),
		components.NewProgressBar("XP", res.Level.ProgressPercent, 44).View(),
		"",
	)

	if res.Unsaved {
		lines = append(lines, theme.Incorrect.Render("Not saved: your result could not be stored."))
	} else {
		lines = append(lines, theme.Muted.Render("Saved"))
	}

	return "\n" + layout.Centered(strings.Join(lines, "\n"), width)
}

package home

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/screens/leaderboard"
	quizscreen "github.com/abhisek/pagequiz/internal/screens/quiz"
	"github.com/abhisek/pagequiz/internal/screens/shop"
	"github.com/abhisek/pagequiz/internal/screens/welcome"
	"github.com/abhisek/pagequiz/internal/ui/components"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

// Picker rows; Tab cycles between them.
const (
	pickPage = iota
	pickReciter
	pickCount
	pickerRows
)

// HomeScreen shows the player's level and lets them pick a page, a reciter
// and a question count before starting a quiz.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu

	pages    []int
	reciters []string
	maxCount int

	page    int
	reciter string
	count   int
	focus   int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for env.Player.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env, reciter: player.DefaultReciter}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "START QUIZ", Action: h.startQuiz},
		{Label: "SHOP", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: shop.New(env)} }
		}},
		{Label: "LEADERBOARD", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: leaderboard.New(env)} }
		}},
		{Label: "SIGN OUT", Action: h.signOut},
	})
	h.refresh()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next option"},
		{Key: "←→", Description: "Change"},
		{Key: "↑↓", Description: "Menu"},
		{Key: "Enter", Description: "Select"},
	}
}

// refresh recomputes the choices from the player, which may have bought
// pages or levelled up since the last render. Current picks are kept when
// they are still available.
func (h *HomeScreen) refresh() {
	p := h.env.Player
	if p == nil {
		return
	}
	h.pages = p.AvailablePages()
	h.reciters = p.AvailableReciters()
	h.maxCount = h.env.Progression.MaxQuestionsForLevel(h.env.Level().Level)

	if !slices.Contains(h.pages, h.page) && len(h.pages) > 0 {
		h.page = h.pages[0]
	}
	if !slices.Contains(h.reciters, h.reciter) && len(h.reciters) > 0 {
		h.reciter = h.reciters[0]
	}
	if h.count == 0 || h.count > h.maxCount {
		h.count = h.maxCount
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch kmsg.String() {
	case "tab":
		h.focus = (h.focus + 1) % pickerRows
		return h, nil
	case "shift+tab":
		h.focus = (h.focus + pickerRows - 1) % pickerRows
		return h, nil
	case "left", "h":
		h.change(-1)
		return h, nil
	case "right", "l":
		h.change(1)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// change moves the focused picker by delta, wrapping around.
func (h *HomeScreen) change(delta int) {
	switch h.focus {
	case pickPage:
		if i := slices.Index(h.pages, h.page); i >= 0 {
			h.page = h.pages[wrap(i+delta, len(h.pages))]
		}
	case pickReciter:
		if i := slices.Index(h.reciters, h.reciter); i >= 0 {
			h.reciter = h.reciters[wrap(i+delta, len(h.reciters))]
		}
	case pickCount:
		h.count = wrap(h.count-1+delta, h.maxCount) + 1
	}
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (h *HomeScreen) startQuiz() tea.Cmd {
	params := quizscreen.Params{Page: h.page, Reciter: h.reciter, Count: h.count}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quizscreen.New(h.env, params)}
	}
}

func (h *HomeScreen) signOut() tea.Cmd {
	env := h.env
	env.Log.Info().Str("player", env.Player.ID).Msg("signed out")
	env.Player = nil
	login := welcome.New(env, func() screen.Screen { return New(env) })
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: login}
	}
}

func (h *HomeScreen) View(width, height int) string {
	p := h.env.Player
	if p == nil {
		return ""
	}
	info := h.env.Level()
	rules := h.env.Progression.Rules()

	var b strings.Builder

	b.WriteString(layout.Centered(theme.Title.Render(fmt.Sprintf("Salaam, %s", p.Username)), width))
	b.WriteString("\n\n")

	panel := []string{
		theme.Body.Bold(true).Render(fmt.Sprintf("Level %d · %s", info.Level, info.Title)),
		components.NewProgressBar("XP", info.ProgressPercent, 44).View(),
		theme.Muted.Render(fmt.Sprintf("%d XP   next level at %d   ◆ %d", p.XP, info.NextLevelXP, p.Diamonds)),
	}
	if rules.DailyQuizzesGoal > 0 {
		panel = append(panel, theme.Muted.Render(fmt.Sprintf(
			"Today: %d/%d quizzes (goal bonus +%d XP)",
			min(p.Daily.Count, rules.DailyQuizzesGoal), rules.DailyQuizzesGoal, rules.DailyQuizzesBonusXP)))
	}
	b.WriteString(layout.Centered(theme.Card.Render(strings.Join(panel, "\n")), width))
	b.WriteString("\n\n")

	pickers := []string{
		h.pickerLine(pickPage, "Page", fmt.Sprint(h.page)),
		h.pickerLine(pickReciter, "Reciter", h.reciter),
		h.pickerLine(pickCount, "Questions", fmt.Sprintf("%d of %d", h.count, h.maxCount)),
	}
	b.WriteString(layout.Centered(strings.Join(pickers, "\n"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(h.menu.View(), width))

	return b.String()
}

func (h *HomeScreen) pickerLine(row int, label, value string) string {
	line := fmt.Sprintf("%-10s ‹ %s ›", label, value)
	if row == h.focus {
		return theme.Selected.Render("▸ " + line)
	}
	return theme.Unselected.Render("  " + line)
}

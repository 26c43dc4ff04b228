package welcome

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/ui/components"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

// signedInMsg carries the outcome of a sign-in attempt.
type signedInMsg struct {
	Player  *player.Snapshot
	Created bool
	Err     error
}

// WelcomeScreen asks for a display name and signs the player in, creating
// the player on first use.
type WelcomeScreen struct {
	env          *screen.Env
	homeFactory  func() screen.Screen
	input        components.TextInput
	busy         bool
	errMsg       string
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by homeFactory once a player is signed in.
func New(env *screen.Env, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		env:         env,
		homeFactory: homeFactory,
		input:       components.NewTextInput("Your name", player.MaxUsernameLength),
	}
}

func (w *WelcomeScreen) Title() string {
	return "Sign in"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		w.busy = false
		if msg.Err != nil {
			w.errMsg = signInError(msg.Err)
			return w, nil
		}
		w.env.Player = msg.Player
		return w, w.transition()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			if w.busy {
				return w, nil
			}
			name, err := player.NormalizeUsername(w.input.Value())
			if err != nil {
				w.errMsg = signInError(err)
				return w, nil
			}
			w.errMsg = ""
			w.busy = true
			return w, w.signIn(name)
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// signIn identifies the player and records the login event.
func (w *WelcomeScreen) signIn(name string) tea.Cmd {
	env := w.env
	return func() tea.Msg {
		ctx := context.Background()
		p, created, err := player.Identify(ctx, env.Players, name, env.Clock())
		if err != nil {
			env.Log.Error().Err(err).Str("username", name).Msg("sign-in failed")
			return signedInMsg{Err: err}
		}
		env.Log.Info().Str("player", p.ID).Bool("created", created).Msg("signed in")
		env.Achievements.Check(ctx, achievements.Event{
			Kind:   achievements.EventLogin,
			Player: p.Clone(),
			Level:  env.Progression.LevelInfo(p.XP).Level,
		})
		return signedInMsg{Player: p, Created: created}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func signInError(err error) string {
	if errors.Is(err, player.ErrInvalidUsername) {
		return "Please enter a name of at most 40 characters."
	}
	return "Could not sign in. Please try again."
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		theme.Body.Bold(true).Render("Learn your pages, one quiz at a time."),
		"",
		"Name: " + w.input.View(),
	}

	switch {
	case w.busy:
		sections = append(sections, "", theme.Hint.Render("Signing in..."))
	case w.errMsg != "":
		sections = append(sections, "", theme.Incorrect.Render(w.errMsg))
	default:
		sections = append(sections, "", theme.Hint.Render("New names create a new player"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

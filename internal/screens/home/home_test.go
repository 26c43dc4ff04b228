package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	quizscreen "github.com/abhisek/pagequiz/internal/screens/quiz"
	"github.com/abhisek/pagequiz/internal/screens/welcome"
)

func testEnv(xp int, items ...string) *screen.Env {
	p := &player.Snapshot{ID: "p1", Username: "amina", XP: xp, Inventory: map[string]bool{}}
	for _, it := range items {
		p.AddItem(it)
	}
	return &screen.Env{
		Progression: progression.NewStaticEngine(progression.SeedConfig()),
		Log:         zerolog.Nop(),
		Player:      p,
	}
}

func press(h *HomeScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.Update(k)
	}
	return cmd
}

var (
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	right = tea.KeyPressMsg{Code: tea.KeyRight}
	left  = tea.KeyPressMsg{Code: tea.KeyLeft}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func TestHomeDefaults(t *testing.T) {
	h := New(testEnv(150))

	if h.page != 1 || h.reciter != player.DefaultReciter {
		t.Errorf("defaults = page %d, reciter %q", h.page, h.reciter)
	}
	// Level 2 grants 2 extra questions on top of the base 5.
	if h.maxCount != 7 || h.count != 7 {
		t.Errorf("count = %d of %d, want 7 of 7", h.count, h.maxCount)
	}

	view := h.View(100, 30)
	for _, want := range []string{"Salaam, amina", "Level 2", "Reciter", "START QUIZ"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomePickers(t *testing.T) {
	h := New(testEnv(0, "page_42", "reciter_ar.husary"))

	press(h, right)
	if h.page != 2 {
		t.Errorf("page = %d, want 2", h.page)
	}
	press(h, right)
	if h.page != 42 {
		t.Errorf("owned page not offered: page = %d", h.page)
	}
	press(h, left, left, left)
	if h.page != 604 {
		t.Errorf("page should wrap to 604, got %d", h.page)
	}

	press(h, tab, right)
	if h.reciter == player.DefaultReciter {
		t.Error("reciter picker did not move")
	}

	press(h, tab, left)
	if h.count != 4 {
		t.Errorf("count = %d, want 4", h.count)
	}
	press(h, right, right)
	if h.count != 1 {
		t.Errorf("count should wrap to 1, got %d", h.count)
	}
}

func TestHomeStartQuiz(t *testing.T) {
	h := New(testEnv(0))

	cmd := press(h, enter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := msg.Screen.(*quizscreen.QuizScreen); !ok {
		t.Errorf("expected quiz screen, got %T", msg.Screen)
	}
}

func TestHomeSignOut(t *testing.T) {
	env := testEnv(0)
	h := New(env)

	cmd := press(h, down, down, down, enter)
	msg, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatalf("expected ResetScreenMsg, got %T", msg)
	}
	if _, ok := msg.Screen.(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome screen, got %T", msg.Screen)
	}
	if env.Player != nil {
		t.Error("player should be cleared on sign out")
	}
}

func TestHomeRefreshAfterLevelUp(t *testing.T) {
	env := testEnv(0)
	h := New(env)
	if h.maxCount != 5 {
		t.Fatalf("maxCount = %d, want 5", h.maxCount)
	}

	env.Player.XP = 1000
	h.Update(nil)
	if h.maxCount != 10 {
		t.Errorf("maxCount after level 5 = %d, want 10", h.maxCount)
	}
}

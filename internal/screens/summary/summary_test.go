package summary

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/progression"
	sess "github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
)

func testEnv() *screen.Env {
	return &screen.Env{Progression: progression.NewStaticEngine(progression.SeedConfig())}
}

func perfectResult() *sess.Result {
	return &sess.Result{
		Score:            5,
		TotalQuestions:   5,
		ExperienceEarned: 100,
		DiamondsEarned:   15,
		Perfect:          true,
		LevelUp: &progression.LevelUp{
			LevelInfo: progression.LevelInfo{Level: 2, Title: "Reciter"},
			Reward:    10,
		},
		Level: progression.LevelInfo{Level: 2, Title: "Reciter", NextLevelXP: 300},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testEnv(), perfectResult())
	if s.Title() != "Quiz Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz Summary")
	}
}

func TestSummaryScreen_LevelUp(t *testing.T) {
	view := New(testEnv(), perfectResult()).View(100, 30)

	for _, want := range []string{"Perfect score!", "5 / 5", "+100 XP", "Level up!", "level 2", "Level reward: 10", "Saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Unsaved(t *testing.T) {
	res := &sess.Result{
		Score:          3,
		TotalQuestions: 5,
		Unsaved:        true,
		SaveErr:        errors.New("disk full"),
		Level:          progression.LevelInfo{Level: 1, Title: "Beginner"},
	}
	view := New(testEnv(), res).View(100, 30)
	if !strings.Contains(view, "Not saved") {
		t.Error("expected unsaved indicator")
	}
	if strings.Contains(view, "Level up!") {
		t.Error("no level-up expected")
	}
}

func TestSummaryScreen_DailyGoal(t *testing.T) {
	res := &sess.Result{Score: 1, TotalQuestions: 2, DailyGoalReached: true}
	view := New(testEnv(), res).View(100, 30)
	if !strings.Contains(view, "daily goal reached +30 XP") {
		t.Errorf("expected daily goal line in %q", view)
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	s := New(testEnv(), perfectResult())
	for _, k := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		_, cmd := s.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected a command", k.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%s: expected PopScreenMsg", k.String())
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if got := len(New(testEnv(), perfectResult()).KeyHints()); got != 2 {
		t.Errorf("KeyHints length = %d, want 2", got)
	}
}

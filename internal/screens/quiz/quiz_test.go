package quiz

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/questions"
	sess "github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/screens/review"
	"github.com/abhisek/pagequiz/internal/screens/summary"
)

// stubSource serves a fixed page.
type stubSource struct {
	ayahs []content.Ayah
	err   error
}

func (s *stubSource) FetchPage(context.Context, int) ([]content.Ayah, error) {
	return s.ayahs, s.err
}

// memPlayers implements player.Repository.
type memPlayers struct {
	saved int
}

func (m *memPlayers) FetchPlayer(context.Context, string) (*player.Snapshot, error) {
	return nil, player.ErrNotFound
}
func (m *memPlayers) FindByUsername(context.Context, string) (*player.Snapshot, error) {
	return nil, player.ErrNotFound
}
func (m *memPlayers) CreatePlayer(context.Context, *player.Snapshot) error { return nil }
func (m *memPlayers) SavePlayer(context.Context, *player.Snapshot) error {
	m.saved++
	return nil
}

type memResults struct {
	records []sess.Record
}

func (m *memResults) SaveQuizResult(_ context.Context, r sess.Record) error {
	m.records = append(m.records, r)
	return nil
}

func annasPage() []content.Ayah {
	texts := []string{
		"qul aAAoothu birabbi alnnasi",
		"maliki alnnasi",
		"ilahi alnnasi",
		"min sharri alwaswasi alkhannasi",
		"allathee yuwaswisu fee sudoori alnnasi",
		"mina aljinnati waalnnasi",
	}
	var out []content.Ayah
	for i, t := range texts {
		out = append(out, content.Ayah{Number: 6231 + i, Text: t, NumberInSurah: i + 1, Page: 604,
			Surah: content.Surah{Number: 114, EnglishName: "An-Naas"}})
	}
	return out
}

type fixture struct {
	env     *screen.Env
	players *memPlayers
	results *memResults
}

func newFixture(src content.Source) fixture {
	f := fixture{players: &memPlayers{}, results: &memResults{}}
	f.env = &screen.Env{
		Players:     f.players,
		Results:     f.results,
		Progression: progression.NewStaticEngine(progression.SeedConfig()),
		Catalog:     []questions.CatalogEntry{{Kind: questions.KindLocateAyah, LevelRequired: 1}},
		Content:     src,
		Log:         zerolog.Nop(),
		Now:         func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Player:      &player.Snapshot{ID: "p1", Username: "amina", Inventory: map[string]bool{}},
	}
	return f
}

// done is the tick the screen scheduled for the current feedback.
func done(s *QuizScreen) feedbackDoneMsg {
	answered, _ := s.session.Progress()
	return feedbackDoneMsg{Generation: s.feedback.Generation, Answered: answered}
}

func started(t *testing.T, f fixture, count int) *QuizScreen {
	t.Helper()
	s := New(f.env, Params{Page: 604, Reciter: player.DefaultReciter, Count: count})
	s.Update(s.Init()())
	if s.question == nil {
		t.Fatalf("quiz did not start: %q", s.errMsg)
	}
	return s
}

// answerKey returns the number key selecting the right or a wrong choice.
func answerKey(q *questions.Question, correct bool) tea.KeyPressMsg {
	i := slices.Index(q.Choices, q.Answer)
	if !correct {
		i = (i + 1) % len(q.Choices)
	}
	d := fmt.Sprint(i + 1)
	return tea.KeyPressMsg{Code: rune(d[0]), Text: d}
}

func TestQuizFullRunWithReview(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()})
	s := started(t, f, 2)

	_, cmd := s.Update(answerKey(s.question, true))
	if cmd == nil || s.feedback == nil || !s.feedback.Correct {
		t.Fatal("expected correct feedback and a scheduled advance")
	}
	s.Update(done(s))
	if s.feedback != nil {
		t.Fatal("feedback should clear on advance")
	}

	s.Update(answerKey(s.question, false))
	if s.feedback == nil || s.feedback.Correct {
		t.Fatal("expected wrong-answer feedback")
	}
	if !strings.Contains(s.View(100, 30), "Not quite") {
		t.Error("feedback not rendered")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.finishing || cmd == nil {
		t.Fatal("expected finalization after the last answer")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected navigation after finalize")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if _, ok := msg.Screen.(*review.ReviewScreen); !ok {
		t.Errorf("expected review screen first, got %T", msg.Screen)
	}

	if len(f.results.records) != 1 || f.results.records[0].Score != 1 {
		t.Errorf("results = %+v, want one record with score 1", f.results.records)
	}
	if f.env.Player.XP != 10 || f.env.Player.TotalQuizzesCompleted != 1 {
		t.Errorf("player = xp %d, quizzes %d; want 10, 1", f.env.Player.XP, f.env.Player.TotalQuizzesCompleted)
	}
}

func TestQuizPerfectGoesToSummary(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()})
	s := started(t, f, 1)

	s.Update(answerKey(s.question, true))
	_, cmd := s.Update(done(s))
	_, cmd = s.Update(cmd())
	msg := cmd().(router.ReplaceScreenMsg)
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
}

func TestQuizStaleFeedbackIgnored(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()})
	s := started(t, f, 3)

	s.Update(answerKey(s.question, true))
	first := done(s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	second := s.question

	// The timer of the first answer fires after the player already moved on.
	_, cmd := s.Update(first)
	if cmd != nil || s.question != second || s.errMsg != "" {
		t.Error("late tick must not change the screen")
	}

	// It must not cut the feedback of the second answer short either.
	s.Update(answerKey(s.question, true))
	s.Update(first)
	if s.feedback == nil {
		t.Error("tick of an earlier answer advanced the quiz")
	}

	// A tick from an older session attempt is ignored as well.
	stale := done(s)
	stale.Generation--
	s.Update(stale)
	if s.feedback == nil {
		t.Error("tick from another generation advanced the quiz")
	}

	s.Update(done(s))
	if s.feedback != nil {
		t.Error("current tick should advance")
	}
}

func TestQuizUnreachableContent(t *testing.T) {
	f := newFixture(&stubSource{err: fmt.Errorf("%w: timeout", content.ErrUnreachable)})
	s := New(f.env, Params{Page: 3, Reciter: player.DefaultReciter, Count: 2})
	s.Update(s.Init()())

	if !strings.Contains(s.View(100, 30), "Could not reach") {
		t.Errorf("expected unreachable message, got %q", s.errMsg)
	}
	if s.HandlesBack() {
		t.Error("Esc should go back on the error view")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key should leave the error view")
	}
}

func TestQuizNoEligibleQuestions(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()[:2]})
	s := New(f.env, Params{Page: 604, Reciter: player.DefaultReciter, Count: 2})
	s.Update(s.Init()())

	if !strings.Contains(s.errMsg, "No questions") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if f.players.saved != 0 || len(f.results.records) != 0 {
		t.Error("nothing should be saved when the quiz cannot start")
	}
}

func TestQuizQuitConfirm(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()})
	s := started(t, f, 2)

	if !s.HandlesBack() {
		t.Fatal("running quiz should handle Esc")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if s.confirmQuit {
		t.Fatal("n should dismiss the dialog")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("y should leave the quiz")
	}
	if f.players.saved != 0 {
		t.Error("abandoned quiz must not be saved")
	}
}

// Run with -race: the finalize command runs off the event loop while the app
// keeps rendering the header from the shared player.
func TestQuizFinalizeDoesNotTouchSharedPlayer(t *testing.T) {
	f := newFixture(&stubSource{ayahs: annasPage()})
	s := started(t, f, 1)

	s.Update(answerKey(s.question, true))
	_, cmd := s.Update(done(s))
	if cmd == nil {
		t.Fatal("expected a finalize command")
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	for msg == nil {
		select {
		case msg = <-ch:
		default:
			_ = f.env.Level()
			_ = f.env.Player.Diamonds
		}
	}

	if f.env.Player.XP != 0 || f.env.Player.TotalQuizzesCompleted != 0 {
		t.Fatal("shared player changed before the result reached the screen")
	}
	fin, ok := msg.(finishedMsg)
	if !ok || fin.Err != nil {
		t.Fatalf("expected finishedMsg, got %#v", msg)
	}

	s.Update(fin)
	if f.env.Player.XP != fin.Result.ExperienceEarned || f.env.Player.TotalQuizzesCompleted != 1 {
		t.Errorf("player = xp %d, quizzes %d; want %d, 1",
			f.env.Player.XP, f.env.Player.TotalQuizzesCompleted, fin.Result.ExperienceEarned)
	}
	if f.env.Player.Diamonds != fin.Result.DiamondsEarned {
		t.Errorf("diamonds = %d, want %d", f.env.Player.Diamonds, fin.Result.DiamondsEarned)
	}
}

package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/questions"
	sess "github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/screens/review"
	"github.com/abhisek/pagequiz/internal/screens/summary"
	"github.com/abhisek/pagequiz/internal/ui/components"
	"github.com/abhisek/pagequiz/internal/ui/layout"
)

// Params are the choices made on the home screen.
type Params struct {
	Page    int
	Reciter string
	Count   int
}

// QuizScreen runs one quiz session over a page.
type QuizScreen struct {
	env     *screen.Env
	params  Params
	session *sess.Session
	delay   time.Duration

	question    *questions.Question
	choices     components.Choices
	feedback    *sess.Feedback
	finishing   bool
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a QuizScreen for env.Player. The session works on a copy of
// the player; env.Player is only updated on the event loop once the session
// has been finalized.
func New(env *screen.Env, params Params) *QuizScreen {
	return &QuizScreen{
		env:     env,
		params:  params,
		session: sess.New(env.Player.Clone(), env.QuizDeps()),
		delay:   sess.FeedbackDelay,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	src, page := s.env.Content, s.params.Page
	return func() tea.Msg {
		ayahs, err := src.FetchPage(context.Background(), page)
		return pageLoadedMsg{Ayahs: ayahs, Err: err}
	}
}

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("Page %d", s.params.Page)
}

// HandlesBack keeps Esc inside the screen while a quiz is running.
func (s *QuizScreen) HandlesBack() bool {
	return s.errMsg == "" && s.question != nil && !s.finishing
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
		}
	case s.question != nil:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Pick"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return s.handlePageLoaded(msg)
	case feedbackDoneMsg:
		if answered, _ := s.session.Progress(); answered != msg.Answered {
			return s, nil
		}
		return s.advance(msg.Generation)
	case finishedMsg:
		return s.handleFinished(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handlePageLoaded(msg pageLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.env.Log.Warn().Err(msg.Err).Int("page", s.params.Page).Msg("page fetch failed")
		s.errMsg = loadError(msg.Err)
		return s, nil
	}

	q, err := s.session.Start(context.Background(), sess.StartConfig{
		ContentUnits:  msg.Ayahs,
		Variant:       s.params.Reciter,
		QuestionCount: s.params.Count,
		SubjectID:     s.params.Page,
		OwnerID:       s.env.Player.ID,
	})
	if err != nil {
		s.errMsg = startError(err)
		return s, nil
	}
	s.show(q)
	return s, nil
}

func (s *QuizScreen) show(q *questions.Question) {
	s.question = q
	s.choices = components.NewChoices(q.Choices)
	s.feedback = nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.question == nil || s.finishing {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.env.Log.Info().Str("session", s.session.ID()).Msg("quiz abandoned")
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.feedback != nil {
		if key == "enter" || key == "space" {
			return s.advance(s.feedback.Generation)
		}
		return s, nil
	}

	var (
		choice string
		done   bool
	)
	s.choices, choice, done = s.choices.Update(msg)
	if !done {
		return s, nil
	}

	fb, err := s.session.Choose(choice)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.choices.Reveal(fb.CorrectAnswer)
	s.feedback = &fb
	answered, _ := s.session.Progress()
	return s, feedbackTick(s.delay, fb.Generation, answered)
}

// feedbackTick schedules the advance after the feedback delay.
func feedbackTick(d time.Duration, gen uint64, answered int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackDoneMsg{Generation: gen, Answered: answered}
	})
}

// advance moves past the feedback of generation gen. Stale generations,
// such as a tick arriving after the player already continued, are ignored.
func (s *QuizScreen) advance(gen uint64) (screen.Screen, tea.Cmd) {
	step, err := s.session.Advance(context.Background(), gen)
	if errors.Is(err, sess.ErrStaleAdvance) {
		return s, nil
	}
	if err != nil {
		s.errMsg = startError(err)
		return s, nil
	}
	if step.Completed {
		s.finishing = true
		s.feedback = nil
		session := s.session
		return s, func() tea.Msg {
			res, err := session.Finalize(context.Background())
			if err != nil {
				return finishedMsg{Err: err}
			}
			return finishedMsg{Result: res, Player: session.Player().Clone()}
		}
	}
	s.show(step.Question)
	return s, nil
}

func (s *QuizScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.finishing = false
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	*s.env.Player = *msg.Player

	var next screen.Screen = summary.New(s.env, msg.Result)
	if msg.Result.NeedsReview() {
		next = review.New(msg.Result.Errors, next)
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func loadError(err error) string {
	switch {
	case errors.Is(err, content.ErrUnreachable):
		return "Could not reach the page service. Check your connection and try again."
	case errors.Is(err, content.ErrInvalidPage):
		return "That page does not exist."
	}
	return "Could not load the page."
}

func startError(err error) string {
	switch {
	case errors.Is(err, sess.ErrNoEligibleQuestions):
		return "No questions can be built from this page at your level. Try another page."
	case errors.Is(err, sess.ErrInvalidQuestionCount):
		return "That many questions is not available at your level."
	case errors.Is(err, sess.ErrNoContent):
		return "This page has no content."
	}
	return err.Error()
}

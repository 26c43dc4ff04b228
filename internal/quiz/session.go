package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/questions"
)

// Deps are the collaborators of a Session. Achievements and Leaderboard are
// optional.
type Deps struct {
	Progression  Progression
	Catalog      []questions.CatalogEntry
	Players      PlayerStore
	Results      ResultSink
	Achievements AchievementChecker
	Leaderboard  XPRecorder
	Log          zerolog.Logger

	// Rand and Now default to a random source and time.Now.
	Rand *rand.Rand
	Now  func() time.Time
}

// Session is the state machine of one quiz attempt for one player. A new
// Start discards the previous attempt.
type Session struct {
	deps   Deps
	player *player.Snapshot
	delay  time.Duration

	mu        sync.Mutex
	state     State
	gen       uint64
	id        string
	cfg       StartConfig
	index     int
	score     int
	xp        int
	errors    []ErrorRecord
	current   *questions.Question
	finalized *Result
}

// New creates an idle session for p.
func New(p *player.Snapshot, deps Deps) *Session {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Session{deps: deps, player: p, delay: FeedbackDelay}
}

// Start resets the session and draws the first question. Any pending
// advance from an earlier attempt becomes stale.
func (s *Session) Start(ctx context.Context, cfg StartConfig) (*questions.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.gen++

	if len(cfg.ContentUnits) == 0 {
		return nil, ErrNoContent
	}
	level := s.deps.Progression.LevelInfo(s.player.XP).Level
	limit := s.deps.Progression.MaxQuestionsForLevel(level)
	if cfg.QuestionCount < 1 || cfg.QuestionCount > limit {
		return nil, fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidQuestionCount, cfg.QuestionCount, limit)
	}

	s.cfg = cfg
	s.id = uuid.NewString()
	s.state = StateInProgress

	q, err := s.nextQuestion()
	if err != nil {
		s.abort(err)
		return nil, err
	}
	s.current = q

	s.deps.Log.Info().
		Str("session", s.id).
		Str("player", cfg.OwnerID).
		Int("page", cfg.SubjectID).
		Int("questions", cfg.QuestionCount).
		Msg("quiz started")
	return q, nil
}

func (s *Session) reset() {
	s.state = StateIdle
	s.id = ""
	s.cfg = StartConfig{}
	s.index = 0
	s.score = 0
	s.xp = 0
	s.errors = nil
	s.current = nil
	s.finalized = nil
}

// abort returns to Idle without touching the player.
func (s *Session) abort(err error) {
	s.deps.Log.Warn().Err(err).Str("session", s.id).Msg("quiz aborted")
	s.reset()
}

// nextQuestion draws an eligible kind uniformly and generates a question,
// redrawing on generator failure up to MaxGenerateAttempts.
func (s *Session) nextQuestion() (*questions.Question, error) {
	level := s.deps.Progression.LevelInfo(s.player.XP).Level
	eligible := questions.Eligible(s.deps.Catalog, level)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w (level %d)", ErrNoEligibleQuestions, level)
	}

	for attempt := 1; attempt <= MaxGenerateAttempts; attempt++ {
		entry := eligible[s.deps.Rand.IntN(len(eligible))]
		q, err := questions.Generate(entry.Kind, s.cfg.ContentUnits, s.cfg.Variant, s.deps.Rand)
		if err == nil {
			return q, nil
		}
		s.deps.Log.Debug().Err(err).
			Str("kind", entry.Kind.ID()).
			Int("attempt", attempt).
			Msg("question generation failed")
	}
	return nil, fmt.Errorf("%w: %d generation attempts failed", ErrNoEligibleQuestions, MaxGenerateAttempts)
}

// SubmitAnswer grades the current question and moves to StateGrading.
func (s *Session) SubmitAnswer(isCorrect bool, correctAnswer string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress || s.current == nil {
		return Feedback{}, fmt.Errorf("%w: submit in %s", ErrWrongState, s.state)
	}

	if isCorrect {
		s.score++
		s.xp += s.deps.Progression.Rules().XPPerCorrectAnswer
	} else {
		s.errors = append(s.errors, ErrorRecord{
			Question:      s.current.Render(),
			CorrectAnswer: correctAnswer,
		})
	}
	s.index++
	s.state = StateGrading

	return Feedback{
		Correct:       isCorrect,
		CorrectAnswer: correctAnswer,
		Generation:    s.gen,
		Last:          s.index >= s.cfg.QuestionCount,
	}, nil
}

// Choose grades choice against the current question.
func (s *Session) Choose(choice string) (Feedback, error) {
	s.mu.Lock()
	q := s.current
	s.mu.Unlock()
	if q == nil {
		return Feedback{}, fmt.Errorf("%w: no current question", ErrWrongState)
	}
	return s.SubmitAnswer(q.IsCorrect(choice), q.Answer)
}

// Step is the outcome of an advance: either the next question or completion.
type Step struct {
	Question  *questions.Question
	Completed bool
}

// Advance leaves StateGrading. gen must be the generation returned in the
// Feedback; anything else yields ErrStaleAdvance.
func (s *Session) Advance(ctx context.Context, gen uint64) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != StateGrading {
		return Step{}, ErrStaleAdvance
	}

	if s.index >= s.cfg.QuestionCount {
		s.state = StateCompleted
		s.current = nil
		return Step{Completed: true}, nil
	}

	q, err := s.nextQuestion()
	if err != nil {
		s.abort(err)
		return Step{}, err
	}
	s.current = q
	s.state = StateInProgress
	return Step{Question: q}, nil
}

// WaitFeedback sleeps for the feedback delay and reports ErrStaleAdvance if
// the session moved on meanwhile.
func (s *Session) WaitFeedback(ctx context.Context, gen uint64) error {
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != StateGrading {
		return ErrStaleAdvance
	}
	return nil
}

// Finalize applies rewards to the player and persists the outcome. It runs
// once per session; later calls return the same result.
func (s *Session) Finalize(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized != nil {
		return s.finalized, nil
	}
	if s.state != StateCompleted {
		return nil, fmt.Errorf("%w: finalize in %s", ErrWrongState, s.state)
	}

	prog := s.deps.Progression
	rules := prog.Rules()
	p := s.player
	now := s.deps.Now()

	res := &Result{
		SessionID:      s.id,
		OwnerID:        s.cfg.OwnerID,
		SubjectID:      s.cfg.SubjectID,
		Score:          s.score,
		TotalQuestions: s.cfg.QuestionCount,
		Errors:         slices.Clone(s.errors),
	}

	oldXP := p.XP
	p.TotalQuizzesCompleted++
	res.DailyCount = p.RecordDailyQuiz(player.Today(now))

	earned := s.xp
	if s.score == s.cfg.QuestionCount {
		res.Perfect = true
		earned += rules.XPBonusAllCorrect
		res.DiamondsEarned += rules.DiamondsBonusAllCorrect
	}
	if rules.DailyQuizzesGoal > 0 && res.DailyCount == rules.DailyQuizzesGoal {
		res.DailyGoalReached = true
		earned += rules.DailyQuizzesBonusXP
	}

	p.XP += earned
	res.ExperienceEarned = earned
	if up := prog.CheckLevelUp(oldXP, p.XP); up != nil {
		res.LevelUp = up
		res.DiamondsEarned += up.Reward
	}
	p.Diamonds += res.DiamondsEarned
	res.Level = prog.LevelInfo(p.XP)

	if s.deps.Achievements != nil {
		s.deps.Achievements.Check(ctx, achievements.Event{
			Kind:           achievements.EventQuizCompleted,
			Player:         p.Clone(),
			Level:          res.Level.Level,
			Score:          res.Score,
			TotalQuestions: res.TotalQuestions,
			Errors:         len(res.Errors),
			IsPerfect:      res.Perfect,
			PageNumber:     res.SubjectID,
		})
	}

	var errs []error
	playerSaved := true
	if err := s.deps.Players.SavePlayer(ctx, p); err != nil {
		playerSaved = false
		errs = append(errs, fmt.Errorf("save player: %w", err))
	}
	record := Record{
		ID:               uuid.NewString(),
		OwnerID:          res.OwnerID,
		SubjectID:        res.SubjectID,
		Score:            res.Score,
		TotalQuestions:   res.TotalQuestions,
		ExperienceEarned: res.ExperienceEarned,
		Errors:           res.Errors,
		CreatedAt:        now.UTC(),
	}
	if err := s.deps.Results.SaveQuizResult(ctx, record); err != nil {
		errs = append(errs, fmt.Errorf("save result: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		res.Unsaved = true
		res.SaveErr = err
		s.deps.Log.Error().Err(err).Str("session", s.id).Msg("quiz result not saved")
	}

	// The ranking must not get ahead of the stored XP.
	if s.deps.Leaderboard != nil && playerSaved {
		if err := s.deps.Leaderboard.Record(ctx, p.Username, p.XP); err != nil {
			s.deps.Log.Warn().Err(err).Msg("leaderboard update failed")
		}
	}

	s.deps.Log.Info().
		Str("session", s.id).
		Int("score", res.Score).
		Int("total", res.TotalQuestions).
		Int("xp", res.ExperienceEarned).
		Int("diamonds", res.DiamondsEarned).
		Bool("unsaved", res.Unsaved).
		Msg("quiz finalized")

	s.finalized = res
	return res, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation identifies the current attempt; Start increments it.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// ID is the session id, empty while Idle.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Current returns the question being answered, or nil.
func (s *Session) Current() *questions.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Progress returns the number of answered questions and the total.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.cfg.QuestionCount
}

// Score is the number of correct answers so far.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// ExperienceEarned is the XP accrued by correct answers so far.
func (s *Session) ExperienceEarned() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xp
}

// Errors returns a copy of the error log.
func (s *Session) Errors() []ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.errors)
}

// Player returns the session's player snapshot.
func (s *Session) Player() *player.Snapshot {
	return s.player
}

// Units returns the content the session quizzes on.
func (s *Session) Units() []content.Ayah {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.ContentUnits
}

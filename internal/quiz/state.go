package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/progression"
)

// MaxGenerateAttempts bounds the redraws when generators lack data.
const MaxGenerateAttempts = 10

// FeedbackDelay is how long answer feedback stays on screen before the
// session advances.
const FeedbackDelay = 3 * time.Second

var (
	// ErrNoEligibleQuestions means no question could be produced for the
	// player's level. The session is back in StateIdle.
	ErrNoEligibleQuestions = errors.New("no eligible questions for this level")

	// ErrStaleAdvance rejects an advance scheduled by an earlier session or
	// already consumed.
	ErrStaleAdvance = errors.New("stale advance")

	// ErrWrongState is returned when an operation does not apply to the
	// current state.
	ErrWrongState = errors.New("operation not valid in current state")

	// ErrInvalidQuestionCount is returned by Start for counts outside
	// 1..MaxQuestionsForLevel.
	ErrInvalidQuestionCount = errors.New("invalid question count")

	// ErrNoContent is returned by Start without content units.
	ErrNoContent = errors.New("no content to quiz on")
)

// State is the session phase.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateGrading
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateGrading:
		return "grading"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// StartConfig describes one quiz attempt.
type StartConfig struct {
	ContentUnits  []content.Ayah
	Variant       string // reciter edition
	QuestionCount int
	SubjectID     int // page number
	OwnerID       string
}

// ErrorRecord is a missed question kept for review.
type ErrorRecord struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

// Feedback describes a graded answer. Generation identifies the session the
// pending advance belongs to.
type Feedback struct {
	Correct       bool
	CorrectAnswer string
	Generation    uint64
	Last          bool
}

// Record is the durable quiz result.
type Record struct {
	ID               string
	OwnerID          string
	SubjectID        int
	Score            int
	TotalQuestions   int
	ExperienceEarned int
	Errors           []ErrorRecord
	CreatedAt        time.Time
}

// Result is the outcome of a finalized session.
type Result struct {
	SessionID        string
	OwnerID          string
	SubjectID        int
	Score            int
	TotalQuestions   int
	ExperienceEarned int
	DiamondsEarned   int
	Perfect          bool
	DailyCount       int
	DailyGoalReached bool
	LevelUp          *progression.LevelUp
	Level            progression.LevelInfo
	Errors           []ErrorRecord

	// Unsaved is set when the player or the result could not be stored.
	// The in-memory outcome stays valid.
	Unsaved bool
	SaveErr error
}

// NeedsReview reports whether the error review precedes the summary.
func (r *Result) NeedsReview() bool {
	return len(r.Errors) > 0
}

// Progression is the subset of the progression engine a session needs.
type Progression interface {
	LevelInfo(xp int) progression.LevelInfo
	CheckLevelUp(oldXP, newXP int) *progression.LevelUp
	MaxQuestionsForLevel(level int) int
	Rules() progression.GameRules
}

// PlayerStore persists the player snapshot.
type PlayerStore interface {
	SavePlayer(ctx context.Context, p *player.Snapshot) error
}

// ResultSink persists quiz results.
type ResultSink interface {
	SaveQuizResult(ctx context.Context, r Record) error
}

// AchievementChecker is notified on completion. It never fails the session.
type AchievementChecker interface {
	Check(ctx context.Context, ev achievements.Event)
}

// XPRecorder mirrors the player's XP to a leaderboard.
type XPRecorder interface {
	Record(ctx context.Context, username string, xp int) error
}

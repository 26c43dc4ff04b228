package achievements

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/pagequiz/internal/player"
)

// EventKind names the moment an evaluation runs.
type EventKind string

const (
	EventLogin         EventKind = "login"
	EventQuizCompleted EventKind = "quiz_completed"
)

// Event carries the tallies an achievement rule may inspect. Quiz fields are
// zero for login events.
type Event struct {
	Kind           EventKind
	Player         *player.Snapshot
	Level          int
	Score          int
	TotalQuestions int
	Errors         int
	IsPerfect      bool
	PageNumber     int
}

// Achievement is a one-time unlock.
type Achievement struct {
	ID          string
	Title       string
	Description string

	earned func(Event) bool
}

// Catalog returns the built-in achievements.
func Catalog() []Achievement {
	return []Achievement{
		{
			ID:          "first_quiz",
			Title:       "First Steps",
			Description: "Complete your first quiz",
			earned: func(e Event) bool {
				return e.Player.TotalQuizzesCompleted >= 1
			},
		},
		{
			ID:          "perfect_quiz",
			Title:       "Flawless",
			Description: "Answer every question of a quiz correctly",
			earned: func(e Event) bool {
				return e.Kind == EventQuizCompleted && e.IsPerfect
			},
		},
		{
			ID:          "ten_quizzes",
			Title:       "Dedicated",
			Description: "Complete ten quizzes",
			earned: func(e Event) bool {
				return e.Player.TotalQuizzesCompleted >= 10
			},
		},
		{
			ID:          "flawless_page",
			Title:       "Page Keeper",
			Description: "Finish a quiz on a purchased page without mistakes",
			earned: func(e Event) bool {
				return e.Kind == EventQuizCompleted &&
					e.Errors == 0 && e.TotalQuestions > 0 &&
					!player.IsFreePage(e.PageNumber) &&
					e.Player.Owns(player.PageItemID(e.PageNumber))
			},
		},
		{
			ID:          "level_5",
			Title:       "Rising",
			Description: "Reach level 5",
			earned: func(e Event) bool {
				return e.Level >= 5
			},
		},
		{
			ID:          "level_10",
			Title:       "Summit",
			Description: "Reach level 10",
			earned: func(e Event) bool {
				return e.Level >= 10
			},
		},
	}
}

// Lookup returns the catalog entry with id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range Catalog() {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Store persists unlocks.
type Store interface {
	// UnlockAchievement records id for playerID and reports whether it was
	// newly stored.
	UnlockAchievement(ctx context.Context, playerID, id string, at time.Time) (bool, error)
	UnlockedAchievements(ctx context.Context, playerID string) ([]Unlocked, error)
}

// Unlocked is a stored unlock.
type Unlocked struct {
	ID         string
	UnlockedAt time.Time
}

// Evaluator checks achievements on login and quiz completion.
type Evaluator struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewEvaluator creates an Evaluator backed by store.
func NewEvaluator(store Store, log zerolog.Logger) *Evaluator {
	return &Evaluator{store: store, log: log, now: time.Now}
}

// Check evaluates every achievement against ev and stores new unlocks.
// Failures are logged and never returned.
func (e *Evaluator) Check(ctx context.Context, ev Event) {
	if e == nil || e.store == nil || ev.Player == nil {
		return
	}

	at := e.now().UTC()
	for _, a := range Catalog() {
		if !a.earned(ev) {
			continue
		}
		added, err := e.store.UnlockAchievement(ctx, ev.Player.ID, a.ID, at)
		if err != nil {
			e.log.Warn().Err(err).
				Str("player", ev.Player.ID).
				Str("achievement", a.ID).
				Msg("achievement unlock failed")
			continue
		}
		if added {
			e.log.Info().
				Str("player", ev.Player.ID).
				Str("achievement", a.ID).
				Str("event", string(ev.Kind)).
				Msg("achievement unlocked")
		}
	}
}

// Unlocked lists the player's unlocks in catalog order.
func (e *Evaluator) Unlocked(ctx context.Context, playerID string) ([]Achievement, error) {
	stored, err := e.store.UnlockedAchievements(ctx, playerID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(stored))
	for _, u := range stored {
		have[u.ID] = true
	}
	var out []Achievement
	for _, a := range Catalog() {
		if have[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

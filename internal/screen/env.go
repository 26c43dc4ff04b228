package screen

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/pagequiz/internal/achievements"
	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/leaderboard"
	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/questions"
	"github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/shop"
)

// ItemLister returns the store items on sale.
type ItemLister interface {
	ListItems(ctx context.Context) ([]shop.Item, error)
}

// Env is shared by every screen of one TUI run. Player is nil until the
// login screen signs someone in; screens mutate it in place so the header
// always shows the current balance.
type Env struct {
	Players      player.Repository
	Results      quiz.ResultSink
	Items        ItemLister
	Progression  *progression.Engine
	Catalog      []questions.CatalogEntry
	Content      content.Source
	Board        leaderboard.Board
	Achievements *achievements.Evaluator
	Log          zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	Player *player.Snapshot
}

// Clock returns the current time.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Level returns the signed-in player's level information.
func (e *Env) Level() progression.LevelInfo {
	xp := 0
	if e.Player != nil {
		xp = e.Player.XP
	}
	return e.Progression.LevelInfo(xp)
}

// QuizDeps builds the collaborators of a quiz session.
func (e *Env) QuizDeps() quiz.Deps {
	deps := quiz.Deps{
		Progression: e.Progression,
		Catalog:     e.Catalog,
		Players:     e.Players,
		Results:     e.Results,
		Log:         e.Log,
		Now:         e.Now,
	}
	if e.Achievements != nil {
		deps.Achievements = e.Achievements
	}
	if e.Board != nil {
		deps.Leaderboard = e.Board
	}
	return deps
}

package leaderboard

import (
	"context"
	"fmt"

	"github.com/abhisek/pagequiz/internal/player"
)

// DefaultSize is the number of entries shown on the board.
const DefaultSize = 10

// Entry is one ranked player.
type Entry struct {
	Rank     int
	Username string
	XP       int
}

// Board ranks players by XP.
type Board interface {
	// Record updates the player's standing. Boards derived from the player
	// table may treat it as a no-op.
	Record(ctx context.Context, username string, xp int) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// PlayerRanker lists players ordered by XP, highest first.
type PlayerRanker interface {
	TopPlayersByXP(ctx context.Context, n int) ([]*player.Snapshot, error)
}

// SQLBoard reads the ranking from the player store.
type SQLBoard struct {
	players PlayerRanker
}

// NewSQLBoard creates a board backed by the player table.
func NewSQLBoard(players PlayerRanker) *SQLBoard {
	return &SQLBoard{players: players}
}

// Record is a no-op: finalization already saved the player's XP.
func (b *SQLBoard) Record(context.Context, string, int) error { return nil }

func (b *SQLBoard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultSize
	}
	players, err := b.players.TopPlayersByXP(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	entries := make([]Entry, len(players))
	for i, p := range players {
		entries[i] = Entry{Rank: i + 1, Username: p.Username, XP: p.XP}
	}
	return entries, nil
}

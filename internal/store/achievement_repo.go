package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pagequiz/internal/achievements"
)

// UnlockAchievement stores an unlock once; added is false if it existed.
func (s *Store) UnlockAchievement(ctx context.Context, playerID, id string, at time.Time) (bool, error) {
	query, args := sqlite().
		Insert(tableAchievements).
		Columns("player_id", "achievement_id", "unlocked_at").
		Values(playerID, id, formatTime(at)).
		OnConflict(entsql.ConflictColumns("player_id", "achievement_id"), entsql.DoNothing()).
		Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("unlock achievement %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UnlockedAchievements lists a player's unlocks, oldest first.
func (s *Store) UnlockedAchievements(ctx context.Context, playerID string) ([]achievements.Unlocked, error) {
	query, args := sqlite().
		Select("achievement_id", "unlocked_at").
		From(entsql.Table(tableAchievements)).
		Where(entsql.EQ("player_id", playerID)).
		OrderBy("unlocked_at", "achievement_id").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []achievements.Unlocked
	for rows.Next() {
		var (
			u  achievements.Unlocked
			at string
		)
		if err := rows.Scan(&u.ID, &at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		u.UnlockedAt = parseTime(at)
		out = append(out, u)
	}
	return out, rows.Err()
}

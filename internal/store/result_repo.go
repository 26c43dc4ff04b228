package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/bytedance/sonic"

	"github.com/abhisek/pagequiz/internal/quiz"
)

// SaveQuizResult appends a quiz result.
func (s *Store) SaveQuizResult(ctx context.Context, r quiz.Record) error {
	errs := r.Errors
	if errs == nil {
		errs = []quiz.ErrorRecord{}
	}
	payload, err := sonic.Marshal(errs)
	if err != nil {
		return fmt.Errorf("marshal error log: %w", err)
	}

	query, args := sqlite().
		Insert(tableResults).
		Columns("id", "player_id", "page_number", "score", "total_questions", "xp_earned", "errors", "created_at").
		Values(r.ID, r.OwnerID, r.SubjectID, r.Score, r.TotalQuestions, r.ExperienceEarned, string(payload), formatTime(r.CreatedAt)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// RecentResults returns the player's latest results, newest first.
func (s *Store) RecentResults(ctx context.Context, playerID string, limit int) ([]quiz.Record, error) {
	sel := sqlite().
		Select("id", "player_id", "page_number", "score", "total_questions", "xp_earned", "errors", "created_at").
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("player_id", playerID)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []quiz.Record
	for rows.Next() {
		var (
			r         quiz.Record
			payload   string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.SubjectID, &r.Score, &r.TotalQuestions, &r.ExperienceEarned, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := sonic.UnmarshalString(payload, &r.Errors); err != nil {
			return nil, fmt.Errorf("decode error log of %s: %w", r.ID, err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DashboardStats summarises the whole database for administrators.
type DashboardStats struct {
	TotalPlayers int
	TotalQuizzes int
	AverageScore float64
}

// Dashboard computes DashboardStats.
func (s *Store) Dashboard(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats

	query, args := sqlite().Select(entsql.Count("*")).From(entsql.Table(tablePlayers)).Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&st.TotalPlayers); err != nil {
		return st, fmt.Errorf("count players: %w", err)
	}

	var avg sql.NullFloat64
	query, args = sqlite().
		Select(entsql.Count("*"), entsql.Avg("score")).
		From(entsql.Table(tableResults)).
		Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&st.TotalQuizzes, &avg); err != nil {
		return st, fmt.Errorf("aggregate results: %w", err)
	}
	st.AverageScore = avg.Float64
	return st, nil
}

// PlayerStats aggregates one player's results.
type PlayerStats struct {
	Quizzes        int
	Correct        int
	TotalQuestions int
}

// Accuracy is the share of correct answers in percent.
func (p PlayerStats) Accuracy() float64 {
	if p.TotalQuestions == 0 {
		return 0
	}
	return float64(p.Correct) * 100 / float64(p.TotalQuestions)
}

// StatsForPlayer aggregates the results of playerID.
func (s *Store) StatsForPlayer(ctx context.Context, playerID string) (PlayerStats, error) {
	var (
		st             PlayerStats
		correct, total sql.NullInt64
	)
	query, args := sqlite().
		Select(entsql.Count("*"), entsql.Sum("score"), entsql.Sum("total_questions")).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("player_id", playerID)).
		Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&st.Quizzes, &correct, &total); err != nil {
		return st, fmt.Errorf("aggregate player results: %w", err)
	}
	st.Correct = int(correct.Int64)
	st.TotalQuestions = int(total.Int64)
	return st, nil
}

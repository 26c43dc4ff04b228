package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/questions"
)

// FetchProgressionConfig loads the level table, question rewards and rules.
// It returns nil, nil when none of them has been configured.
func (s *Store) FetchProgressionConfig(ctx context.Context) (*progression.Config, error) {
	var cfg progression.Config

	query, args := sqlite().
		Select("level", "title", "xp_required", "diamonds_reward").
		From(entsql.Table(tableLevels)).
		OrderBy("xp_required").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	for rows.Next() {
		var l progression.LevelDefinition
		if err := rows.Scan(&l.Level, &l.Title, &l.XPRequired, &l.DiamondsReward); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan level: %w", err)
		}
		cfg.Levels = append(cfg.Levels, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query, args = sqlite().
		Select("level", "questions_to_add", "is_cumulative").
		From(entsql.Table(tableRewards)).
		OrderBy("level").
		Query()
	rows, err = s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question rewards: %w", err)
	}
	for rows.Next() {
		var r progression.QuestionRewardRule
		if err := rows.Scan(&r.Level, &r.QuestionsToAdd, &r.IsCumulative); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan question reward: %w", err)
		}
		cfg.QuestionRewards = append(cfg.QuestionRewards, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query, args = sqlite().
		Select("xp_per_correct_answer", "xp_bonus_all_correct", "diamonds_bonus_all_correct", "daily_quizzes_goal", "daily_quizzes_bonus_xp").
		From(entsql.Table(tableRules)).
		Where(entsql.EQ("id", 1)).
		Query()
	r := &cfg.Rules
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&r.XPPerCorrectAnswer, &r.XPBonusAllCorrect, &r.DiamondsBonusAllCorrect, &r.DailyQuizzesGoal, &r.DailyQuizzesBonusXP)
	hasRules := true
	if errors.Is(err, sql.ErrNoRows) {
		hasRules = false
	} else if err != nil {
		return nil, fmt.Errorf("query game rules: %w", err)
	}

	if len(cfg.Levels) == 0 && len(cfg.QuestionRewards) == 0 && !hasRules {
		return nil, nil
	}
	return &cfg, nil
}

// SaveProgressionConfig replaces the stored progression configuration.
func (s *Store) SaveProgressionConfig(ctx context.Context, cfg progression.Config) error {
	if err := progression.Validate(cfg); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return saveProgression(ctx, tx, cfg)
	})
}

func saveProgression(ctx context.Context, tx *sql.Tx, cfg progression.Config) error {
	for _, t := range []string{tableLevels, tableRewards, tableRules} {
		query, args := sqlite().Delete(t).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	if len(cfg.Levels) > 0 {
		ins := sqlite().Insert(tableLevels).Columns("level", "title", "xp_required", "diamonds_reward")
		for _, l := range cfg.Levels {
			ins.Values(l.Level, l.Title, l.XPRequired, l.DiamondsReward)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert levels: %w", err)
		}
	}

	if len(cfg.QuestionRewards) > 0 {
		ins := sqlite().Insert(tableRewards).Columns("level", "questions_to_add", "is_cumulative")
		for _, r := range cfg.QuestionRewards {
			ins.Values(r.Level, r.QuestionsToAdd, r.IsCumulative)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert question rewards: %w", err)
		}
	}

	r := cfg.Rules
	query, args := sqlite().
		Insert(tableRules).
		Columns("id", "xp_per_correct_answer", "xp_bonus_all_correct", "diamonds_bonus_all_correct", "daily_quizzes_goal", "daily_quizzes_bonus_xp").
		Values(1, r.XPPerCorrectAnswer, r.XPBonusAllCorrect, r.DiamondsBonusAllCorrect, r.DailyQuizzesGoal, r.DailyQuizzesBonusXP).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game rules: %w", err)
	}
	return nil
}

// FetchQuestionCatalog returns the configured catalog, or the default
// catalog when the table is empty. Unknown ids are skipped.
func (s *Store) FetchQuestionCatalog(ctx context.Context) ([]questions.CatalogEntry, error) {
	query, args := sqlite().
		Select("id", "level_required").
		From(entsql.Table(tableCatalog)).
		OrderBy("level_required", "id").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question catalog: %w", err)
	}
	defer rows.Close()

	var (
		out  []questions.CatalogEntry
		seen int
	)
	for rows.Next() {
		var (
			id    string
			level int
		)
		if err := rows.Scan(&id, &level); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		seen++
		if kind, ok := questions.ParseKind(id); ok {
			out = append(out, questions.CatalogEntry{Kind: kind, LevelRequired: level})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if seen == 0 {
		return questions.DefaultCatalog(), nil
	}
	return out, nil
}

// SaveQuestionCatalog replaces the catalog table.
func (s *Store) SaveQuestionCatalog(ctx context.Context, entries []questions.CatalogEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return saveCatalog(ctx, tx, entries)
	})
}

func saveCatalog(ctx context.Context, tx *sql.Tx, entries []questions.CatalogEntry) error {
	query, args := sqlite().Delete(tableCatalog).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear question catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	ins := sqlite().Insert(tableCatalog).Columns("id", "level_required")
	for _, e := range entries {
		ins.Values(e.Kind.ID(), e.LevelRequired)
	}
	query, args = ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert question catalog: %w", err)
	}
	return nil
}

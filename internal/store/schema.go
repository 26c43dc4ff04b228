package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	tablePlayers      = "players"
	tableInventory    = "player_inventory"
	tableResults      = "quiz_results"
	tableItems        = "store_items"
	tableLevels       = "level_definitions"
	tableRewards      = "question_rewards"
	tableRules        = "game_rules"
	tableCatalog      = "question_catalog"
	tableAchievements = "achievements_unlocked"
	tablePageCache    = "page_cache"
)

// schema is applied on every Open. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		role TEXT NOT NULL DEFAULT 'user',
		xp INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
		diamonds INTEGER NOT NULL DEFAULT 0 CHECK (diamonds >= 0),
		total_quizzes_completed INTEGER NOT NULL DEFAULT 0,
		daily_quiz_count INTEGER NOT NULL DEFAULT 0,
		last_played_date TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS players_xp ON players (xp DESC)`,
	`CREATE TABLE IF NOT EXISTS player_inventory (
		player_id TEXT NOT NULL REFERENCES players (id) ON DELETE CASCADE,
		item_id TEXT NOT NULL,
		acquired_at TEXT NOT NULL,
		PRIMARY KEY (player_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL REFERENCES players (id) ON DELETE CASCADE,
		page_number INTEGER NOT NULL,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		xp_earned INTEGER NOT NULL,
		errors TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_results_player ON quiz_results (player_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS store_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL CHECK (price >= 0),
		type TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS level_definitions (
		level INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		xp_required INTEGER NOT NULL,
		diamonds_reward INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS question_rewards (
		level INTEGER PRIMARY KEY,
		questions_to_add INTEGER NOT NULL,
		is_cumulative INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS game_rules (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		xp_per_correct_answer INTEGER NOT NULL DEFAULT 0,
		xp_bonus_all_correct INTEGER NOT NULL DEFAULT 0,
		diamonds_bonus_all_correct INTEGER NOT NULL DEFAULT 0,
		daily_quizzes_goal INTEGER NOT NULL DEFAULT 0,
		daily_quizzes_bonus_xp INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS question_catalog (
		id TEXT PRIMARY KEY,
		level_required INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS achievements_unlocked (
		player_id TEXT NOT NULL REFERENCES players (id) ON DELETE CASCADE,
		achievement_id TEXT NOT NULL,
		unlocked_at TEXT NOT NULL,
		PRIMARY KEY (player_id, achievement_id)
	)`,
	`CREATE TABLE IF NOT EXISTS page_cache (
		page INTEGER NOT NULL,
		edition TEXT NOT NULL,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (page, edition)
	)`,
}

// migrate creates missing tables.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

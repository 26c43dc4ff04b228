package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pagequiz/internal/player"
)

var playerColumns = []string{
	"id",
	"username",
	"role",
	"xp",
	"diamonds",
	"total_quizzes_completed",
	"daily_quiz_count",
	"last_played_date",
	"created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*player.Snapshot, error) {
	var (
		p         player.Snapshot
		role      string
		createdAt string
	)
	err := row.Scan(
		&p.ID,
		&p.Username,
		&role,
		&p.XP,
		&p.Diamonds,
		&p.TotalQuizzesCompleted,
		&p.Daily.Count,
		&p.Daily.LastPlayedDate,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = player.Role(role)
	p.CreatedAt = parseTime(createdAt)
	p.Inventory = map[string]bool{}
	return &p, nil
}

// FetchPlayer loads a player with inventory by id.
func (s *Store) FetchPlayer(ctx context.Context, id string) (*player.Snapshot, error) {
	return s.findPlayer(ctx, entsql.EQ("id", id), id)
}

// FindByUsername loads a player by display name, case-insensitively.
func (s *Store) FindByUsername(ctx context.Context, username string) (*player.Snapshot, error) {
	return s.findPlayer(ctx, entsql.EQ("username", username), username)
}

func (s *Store) findPlayer(ctx context.Context, pred *entsql.Predicate, key string) (*player.Snapshot, error) {
	query, args := sqlite().
		Select(playerColumns...).
		From(entsql.Table(tablePlayers)).
		Where(pred).
		Limit(1).
		Query()

	p, err := scanPlayer(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "player", Key: key, err: player.ErrNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}

	items, err := s.inventory(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range items {
		p.Inventory[id] = true
	}
	return p, nil
}

func (s *Store) inventory(ctx context.Context, q querier, playerID string) ([]string, error) {
	query, args := sqlite().
		Select("item_id").
		From(entsql.Table(tableInventory)).
		Where(entsql.EQ("player_id", playerID)).
		OrderBy("item_id").
		Query()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

// CreatePlayer inserts a new player and its inventory.
func (s *Store) CreatePlayer(ctx context.Context, p *player.Snapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		created := p.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		role := p.Role
		if role == "" {
			role = player.RoleUser
		}
		query, args := sqlite().
			Insert(tablePlayers).
			Columns(playerColumns...).
			Values(
				p.ID,
				p.Username,
				string(role),
				p.XP,
				p.Diamonds,
				p.TotalQuizzesCompleted,
				p.Daily.Count,
				p.Daily.LastPlayedDate,
				formatTime(created),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		return s.addItems(ctx, tx, p)
	})
}

// SavePlayer writes the mutable player fields and any new inventory items.
// Inventory rows are never removed.
func (s *Store) SavePlayer(ctx context.Context, p *player.Snapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query, args := sqlite().
			Update(tablePlayers).
			Set("username", p.Username).
			Set("role", string(p.Role)).
			Set("xp", p.XP).
			Set("diamonds", p.Diamonds).
			Set("total_quizzes_completed", p.TotalQuizzesCompleted).
			Set("daily_quiz_count", p.Daily.Count).
			Set("last_played_date", p.Daily.LastPlayedDate).
			Where(entsql.EQ("id", p.ID)).
			Query()

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return &NotFoundError{Entity: "player", Key: p.ID, err: player.ErrNotFound}
		}
		return s.addItems(ctx, tx, p)
	})
}

func (s *Store) addItems(ctx context.Context, tx *sql.Tx, p *player.Snapshot) error {
	now := formatTime(time.Now())
	for _, id := range p.Items() {
		query, args := sqlite().
			Insert(tableInventory).
			Columns("player_id", "item_id", "acquired_at").
			Values(p.ID, id, now).
			OnConflict(entsql.ConflictColumns("player_id", "item_id"), entsql.DoNothing()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert inventory %q: %w", id, err)
		}
	}
	return nil
}

// TopPlayersByXP returns up to n players, highest XP first. Inventories are
// not loaded.
func (s *Store) TopPlayersByXP(ctx context.Context, n int) ([]*player.Snapshot, error) {
	return s.listPlayers(ctx, n)
}

// ListPlayers returns every player, highest XP first.
func (s *Store) ListPlayers(ctx context.Context) ([]*player.Snapshot, error) {
	return s.listPlayers(ctx, 0)
}

func (s *Store) listPlayers(ctx context.Context, limit int) ([]*player.Snapshot, error) {
	sel := sqlite().
		Select(playerColumns...).
		From(entsql.Table(tablePlayers)).
		OrderBy(entsql.Desc("xp"), "username")
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []*player.Snapshot
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdminUpdate holds the fields an administrator may change. Nil fields are
// left untouched.
type AdminUpdate struct {
	Username *string
	XP       *int
	Diamonds *int
	Role     *player.Role
}

// UpdatePlayerByAdmin applies upd to the player named username and returns
// the stored result.
func (s *Store) UpdatePlayerByAdmin(ctx context.Context, username string, upd AdminUpdate) (*player.Snapshot, error) {
	p, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		name, err := player.NormalizeUsername(*upd.Username)
		if err != nil {
			return nil, err
		}
		p.Username = name
	}
	if upd.XP != nil {
		if *upd.XP < 0 {
			return nil, fmt.Errorf("xp must not be negative")
		}
		p.XP = *upd.XP
	}
	if upd.Diamonds != nil {
		if *upd.Diamonds < 0 {
			return nil, fmt.Errorf("diamonds must not be negative")
		}
		p.Diamonds = *upd.Diamonds
	}
	if upd.Role != nil {
		if *upd.Role != player.RoleUser && *upd.Role != player.RoleAdmin {
			return nil, fmt.Errorf("unknown role %q", *upd.Role)
		}
		p.Role = *upd.Role
	}

	if err := s.SavePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

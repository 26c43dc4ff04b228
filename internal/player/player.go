package player

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxUsernameLength is the longest accepted display name, in runes.
const MaxUsernameLength = 40

var (
	// ErrNotFound is returned when no player matches the lookup.
	ErrNotFound = errors.New("player not found")

	// ErrInvalidUsername is returned for empty or overlong display names.
	ErrInvalidUsername = errors.New("invalid username")
)

var validate = validator.New()

// Role grants access to the administrative commands.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DailyQuizzes counts quizzes finished on LastPlayedDate (YYYY-MM-DD).
type DailyQuizzes struct {
	Count          int
	LastPlayedDate string
}

// Snapshot is the client-side copy of a player. The quiz session mutates it
// only during finalization.
type Snapshot struct {
	ID                    string
	Username              string
	Role                  Role
	XP                    int
	Diamonds              int
	TotalQuizzesCompleted int
	Daily                 DailyQuizzes
	Inventory             map[string]bool
	CreatedAt             time.Time
}

// Repository is the player store contract.
type Repository interface {
	FetchPlayer(ctx context.Context, id string) (*Snapshot, error)
	FindByUsername(ctx context.Context, username string) (*Snapshot, error)
	CreatePlayer(ctx context.Context, p *Snapshot) error
	SavePlayer(ctx context.Context, p *Snapshot) error
}

// Today formats t as the calendar date used by the daily counter.
func Today(t time.Time) string {
	return t.Format(time.DateOnly)
}

// NormalizeUsername trims name and checks its length.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, fmt.Sprintf("required,max=%d", MaxUsernameLength)); err != nil {
		return "", fmt.Errorf("%w: must be 1-%d characters", ErrInvalidUsername, MaxUsernameLength)
	}
	return name, nil
}

// Identify signs a player in by display name, creating the player on first
// use. created reports whether a new player was stored.
func Identify(ctx context.Context, repo Repository, username string, now time.Time) (p *Snapshot, created bool, err error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, false, err
	}

	p, err = repo.FindByUsername(ctx, name)
	if err == nil {
		p.ResetDailyIfStale(Today(now))
		return p, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("find player %q: %w", name, err)
	}

	p = &Snapshot{
		ID:        uuid.NewString(),
		Username:  name,
		Role:      RoleUser,
		Inventory: map[string]bool{},
		CreatedAt: now.UTC(),
	}
	if err := repo.CreatePlayer(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create player %q: %w", name, err)
	}
	return p, true, nil
}

// Load fetches a player and resets the daily counter when it belongs to an
// earlier day.
func Load(ctx context.Context, repo Repository, id string, today string) (*Snapshot, error) {
	p, err := repo.FetchPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ResetDailyIfStale(today)
	return p, nil
}

// ResetDailyIfStale zeroes the daily counter when it was last touched on a
// different day. It reports whether a reset happened.
func (s *Snapshot) ResetDailyIfStale(today string) bool {
	if s.Daily.LastPlayedDate == today {
		return false
	}
	s.Daily = DailyQuizzes{Count: 0, LastPlayedDate: today}
	return true
}

// RecordDailyQuiz counts one finished quiz for today and returns the new
// daily count.
func (s *Snapshot) RecordDailyQuiz(today string) int {
	s.ResetDailyIfStale(today)
	s.Daily.Count++
	return s.Daily.Count
}

// IsAdmin reports whether the player may use admin commands.
func (s *Snapshot) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Owns reports whether itemID is in the inventory.
func (s *Snapshot) Owns(itemID string) bool {
	return s.Inventory[itemID]
}

// AddItem puts itemID into the inventory.
func (s *Snapshot) AddItem(itemID string) {
	if s.Inventory == nil {
		s.Inventory = map[string]bool{}
	}
	s.Inventory[itemID] = true
}

// Items returns the owned item ids, sorted.
func (s *Snapshot) Items() []string {
	items := make([]string, 0, len(s.Inventory))
	for id, owned := range s.Inventory {
		if owned {
			items = append(items, id)
		}
	}
	slices.Sort(items)
	return items
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Inventory = make(map[string]bool, len(s.Inventory))
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}
	return &c
}

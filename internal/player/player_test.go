package player

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

type memRepo struct {
	byID      map[string]*Snapshot
	createErr error
	findErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*Snapshot{}}
}

func (r *memRepo) FetchPlayer(_ context.Context, id string) (*Snapshot, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *memRepo) FindByUsername(_ context.Context, username string) (*Snapshot, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, p := range r.byID {
		if p.Username == username {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) CreatePlayer(_ context.Context, p *Snapshot) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *memRepo) SavePlayer(_ context.Context, p *Snapshot) error {
	r.byID[p.ID] = p.Clone()
	return nil
}

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestIdentify_CreatesThenSignsIn(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	p, created, err := Identify(ctx, repo, "  Amina ", now)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if !created {
		t.Error("expected a new player")
	}
	if p.Username != "Amina" || p.Role != RoleUser || p.ID == "" {
		t.Errorf("unexpected player: %+v", p)
	}

	again, created, err := Identify(ctx, repo, "Amina", now)
	if err != nil {
		t.Fatalf("Identify again: %v", err)
	}
	if created {
		t.Error("second Identify should sign in, not create")
	}
	if again.ID != p.ID {
		t.Errorf("id = %q, want %q", again.ID, p.ID)
	}
}

func TestIdentify_InvalidUsername(t *testing.T) {
	tests := []string{"", "   ", strings.Repeat("x", MaxUsernameLength+1)}
	for _, name := range tests {
		_, _, err := Identify(context.Background(), newMemRepo(), name, now)
		if !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("Identify(%q): expected ErrInvalidUsername, got %v", name, err)
		}
	}

	// Length is counted in runes, not bytes.
	arabic := strings.Repeat("ن", MaxUsernameLength)
	if _, err := NormalizeUsername(arabic); err != nil {
		t.Errorf("40-rune name rejected: %v", err)
	}
}

func TestIdentify_StoreErrors(t *testing.T) {
	repo := newMemRepo()
	repo.findErr = errors.New("disk full")
	if _, _, err := Identify(context.Background(), repo, "Bilal", now); err == nil {
		t.Error("expected lookup error")
	}

	repo = newMemRepo()
	repo.createErr = errors.New("constraint")
	if _, _, err := Identify(context.Background(), repo, "Bilal", now); err == nil {
		t.Error("expected create error")
	}
}

func TestLoad_ResetsStaleDailyCounter(t *testing.T) {
	repo := newMemRepo()
	repo.byID["p1"] = &Snapshot{
		ID:    "p1",
		Daily: DailyQuizzes{Count: 3, LastPlayedDate: "2026-03-13"},
	}

	p, err := Load(context.Background(), repo, "p1", Today(now))
	if err != nil {
		t.Fatal(err)
	}
	if p.Daily.Count != 0 || p.Daily.LastPlayedDate != "2026-03-14" {
		t.Errorf("daily = %+v, want reset for today", p.Daily)
	}

	repo.byID["p1"].Daily = DailyQuizzes{Count: 2, LastPlayedDate: "2026-03-14"}
	p, _ = Load(context.Background(), repo, "p1", Today(now))
	if p.Daily.Count != 2 {
		t.Errorf("same-day counter reset: %+v", p.Daily)
	}

	if _, err := Load(context.Background(), repo, "missing", Today(now)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordDailyQuiz(t *testing.T) {
	p := &Snapshot{Daily: DailyQuizzes{Count: 5, LastPlayedDate: "2026-03-13"}}
	if got := p.RecordDailyQuiz("2026-03-14"); got != 1 {
		t.Errorf("first quiz of the day = %d, want 1", got)
	}
	if got := p.RecordDailyQuiz("2026-03-14"); got != 2 {
		t.Errorf("second quiz of the day = %d, want 2", got)
	}
}

func TestAvailablePages(t *testing.T) {
	p := &Snapshot{}
	p.AddItem(PageItemID(300))
	p.AddItem(PageItemID(2))
	p.AddItem("page_bogus")
	p.AddItem(ReciterItemID("ar.husary"))

	got := p.AvailablePages()
	want := []int{1, 2, 300, 602, 603, 604}
	if !slices.Equal(got, want) {
		t.Errorf("AvailablePages = %v, want %v", got, want)
	}
	if !p.CanPlayPage(300) || p.CanPlayPage(301) || !p.CanPlayPage(604) {
		t.Error("CanPlayPage disagrees with inventory")
	}
}

func TestAvailableReciters(t *testing.T) {
	p := &Snapshot{}
	if got := p.AvailableReciters(); !slices.Equal(got, []string{DefaultReciter}) {
		t.Errorf("default reciters = %v", got)
	}

	p.AddItem(ReciterItemID("ar.husary"))
	p.AddItem(ReciterItemID(DefaultReciter))
	got := p.AvailableReciters()
	if !slices.Equal(got, []string{DefaultReciter, "ar.husary"}) {
		t.Errorf("AvailableReciters = %v", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := &Snapshot{ID: "p1", Inventory: map[string]bool{"page_5": true}}
	c := p.Clone()
	c.AddItem("page_6")
	if p.Owns("page_6") {
		t.Error("clone shares inventory with original")
	}
}

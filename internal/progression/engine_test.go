package progression

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

// mockSource implements ConfigSource for testing.
type mockSource struct {
	cfg   *Config
	err   error
	calls int
}

func (m *mockSource) FetchProgressionConfig(_ context.Context) (*Config, error) {
	m.calls++
	return m.cfg, m.err
}

func threeLevels() Config {
	return Config{
		Levels: []LevelDefinition{
			{Level: 1, Title: "One", XPRequired: 0},
			{Level: 2, Title: "Two", XPRequired: 100, DiamondsReward: 10},
			{Level: 3, Title: "Three", XPRequired: 300, DiamondsReward: 20},
		},
		Rules: GameRules{XPPerCorrectAnswer: 10, XPBonusAllCorrect: 50},
	}
}

func newInitialized(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e := NewEngine(&mockSource{cfg: &cfg}, zerolog.Nop())
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if e.Origin() != OriginRemote {
		t.Fatalf("origin = %s, want remote", e.Origin())
	}
	return e
}

func TestLevelInfoScenario(t *testing.T) {
	e := newInitialized(t, threeLevels())

	info := e.LevelInfo(150)
	if info.Level != 2 {
		t.Errorf("level = %d, want 2", info.Level)
	}
	if info.ProgressPercent != 25 {
		t.Errorf("progress = %v, want 25", info.ProgressPercent)
	}
	if info.CurrentLevelXP != 100 || info.NextLevelXP != 300 {
		t.Errorf("bounds = %d..%d, want 100..300", info.CurrentLevelXP, info.NextLevelXP)
	}
	if info.Title != "Two" {
		t.Errorf("title = %q, want Two", info.Title)
	}
}

func TestLevelInfoMaxLevel(t *testing.T) {
	e := newInitialized(t, threeLevels())

	for _, xp := range []int{300, 301, 10_000} {
		info := e.LevelInfo(xp)
		if info.Level != 3 {
			t.Errorf("xp %d: level = %d, want 3", xp, info.Level)
		}
		if info.ProgressPercent != 100 {
			t.Errorf("xp %d: progress = %v, want 100", xp, info.ProgressPercent)
		}
		if info.NextLevelXP != xp {
			t.Errorf("xp %d: next = %d, want %d", xp, info.NextLevelXP, xp)
		}
	}
}

func TestLevelInfoMonotonicAndBounded(t *testing.T) {
	e := newInitialized(t, SeedConfig())
	top := SeedConfig().Levels[len(SeedConfig().Levels)-1].XPRequired

	prev := 0
	for xp := 0; xp <= top+500; xp += 7 {
		info := e.LevelInfo(xp)
		if info.Level < prev {
			t.Fatalf("xp %d: level %d below previous %d", xp, info.Level, prev)
		}
		prev = info.Level
		if info.ProgressPercent < 0 || info.ProgressPercent > 100 {
			t.Fatalf("xp %d: progress %v out of range", xp, info.ProgressPercent)
		}
		if (info.ProgressPercent == 100) != (xp >= top) {
			t.Fatalf("xp %d: progress %v, top threshold %d", xp, info.ProgressPercent, top)
		}
	}
}

func TestLevelInfoPlaceholder(t *testing.T) {
	e := NewEngine(&mockSource{cfg: ptr(threeLevels())}, zerolog.Nop())

	// Not initialized yet.
	info := e.LevelInfo(1000)
	if info.Level != 1 || info.ProgressPercent != 0 {
		t.Errorf("uninitialized info = %+v, want level 1 progress 0", info)
	}
	if got := e.MaxQuestionsForLevel(10); got != BaseQuestions {
		t.Errorf("uninitialized quota = %d, want %d", got, BaseQuestions)
	}

	// Initialized with an empty table.
	empty := NewEngine(&mockSource{cfg: &Config{}}, zerolog.Nop())
	if err := empty.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if info := empty.LevelInfo(500); info != placeholder {
		t.Errorf("empty table info = %+v, want placeholder", info)
	}
}

func TestCheckLevelUp(t *testing.T) {
	e := newInitialized(t, threeLevels())

	tests := []struct {
		name       string
		oldXP      int
		newXP      int
		wantLevel  int
		wantReward int
	}{
		{"same level", 10, 90, 0, 0},
		{"one level", 90, 110, 2, 10},
		{"exact threshold", 299, 300, 3, 20},
		{"skip a level", 0, 400, 3, 20},
		{"decrease", 400, 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := e.CheckLevelUp(tt.oldXP, tt.newXP)
			if tt.wantLevel == 0 {
				if up != nil {
					t.Fatalf("expected no level up, got %+v", up)
				}
				return
			}
			if up == nil {
				t.Fatal("expected level up")
			}
			if up.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", up.Level, tt.wantLevel)
			}
			if up.Reward != tt.wantReward {
				t.Errorf("reward = %d, want %d", up.Reward, tt.wantReward)
			}
		})
	}
}

func TestCheckLevelUpIsPure(t *testing.T) {
	e := newInitialized(t, threeLevels())
	a := e.CheckLevelUp(90, 120)
	b := e.CheckLevelUp(90, 120)
	if a == nil || b == nil || *a != *b {
		t.Fatalf("repeated calls differ: %+v vs %+v", a, b)
	}
	if info := e.LevelInfo(90); info.Level != 1 {
		t.Errorf("level after check = %d, want 1", info.Level)
	}
}

func TestMaxQuestionsCumulative(t *testing.T) {
	cfg := threeLevels()
	cfg.QuestionRewards = []QuestionRewardRule{
		{Level: 5, QuestionsToAdd: 3, IsCumulative: true},
		{Level: 2, QuestionsToAdd: 2, IsCumulative: true},
	}
	e := newInitialized(t, cfg)

	if got := e.MaxQuestionsForLevel(5); got != 10 {
		t.Errorf("level 5 quota = %d, want 10", got)
	}

	prev := 0
	for level := 1; level <= 12; level++ {
		got := e.MaxQuestionsForLevel(level)
		if got < prev {
			t.Fatalf("level %d: quota %d below previous %d", level, got, prev)
		}
		prev = got
	}
}

func TestMaxQuestionsNonCumulative(t *testing.T) {
	cfg := threeLevels()
	cfg.QuestionRewards = []QuestionRewardRule{
		{Level: 2, QuestionsToAdd: 2, IsCumulative: true},
		{Level: 4, QuestionsToAdd: 7, IsCumulative: false},
		{Level: 6, QuestionsToAdd: 1, IsCumulative: true},
	}
	e := newInitialized(t, cfg)

	tests := []struct{ level, want int }{
		{1, 5},
		{2, 7},
		{3, 7},
		{4, 12}, // overwritten addend
		{6, 13},
	}
	for _, tt := range tests {
		if got := e.MaxQuestionsForLevel(tt.level); got != tt.want {
			t.Errorf("level %d: quota = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestInitializeFallsBackToDefaults(t *testing.T) {
	invalid := threeLevels()
	invalid.Levels[2].XPRequired = 50

	tests := []struct {
		name string
		src  *mockSource
	}{
		{"fetch error", &mockSource{err: errors.New("backend down")}},
		{"missing config", &mockSource{}},
		{"non-monotonic table", &mockSource{cfg: &invalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.src, zerolog.Nop())
			if err := e.Initialize(context.Background()); err != nil {
				t.Fatalf("initialize returned error: %v", err)
			}
			if e.Origin() != OriginDefaults {
				t.Errorf("origin = %s, want defaults", e.Origin())
			}
			rules := e.Rules()
			if rules.XPPerCorrectAnswer != 10 || rules.XPBonusAllCorrect != 50 {
				t.Errorf("rules = %+v, want 10/50 defaults", rules)
			}
			if got := e.MaxQuestionsForLevel(3); got != 5 {
				t.Errorf("quota = %d, want 5", got)
			}
		})
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	src := &mockSource{cfg: ptr(threeLevels())}
	e := NewEngine(src, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := e.Initialize(context.Background()); err != nil {
			t.Fatalf("initialize %d: %v", i, err)
		}
	}
	if src.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", src.calls)
	}
}

func TestInitializeCancelledContext(t *testing.T) {
	src := &mockSource{cfg: ptr(threeLevels())}
	e := NewEngine(src, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Initialize(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if err := e.Initialize(context.Background()); err == nil {
		t.Fatal("expected cached error on second call")
	}
	if src.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", src.calls)
	}
}

func TestZeroXPRulesUseDefaults(t *testing.T) {
	cfg := threeLevels()
	cfg.Rules = GameRules{DailyQuizzesGoal: 3}
	e := newInitialized(t, cfg)

	rules := e.Rules()
	if rules.XPPerCorrectAnswer != DefaultXPPerCorrectAnswer {
		t.Errorf("xp per correct = %d, want %d", rules.XPPerCorrectAnswer, DefaultXPPerCorrectAnswer)
	}
	if rules.XPBonusAllCorrect != DefaultXPBonusAllCorrect {
		t.Errorf("xp bonus = %d, want %d", rules.XPBonusAllCorrect, DefaultXPBonusAllCorrect)
	}
	if rules.DailyQuizzesGoal != 3 {
		t.Errorf("daily goal = %d, want 3", rules.DailyQuizzesGoal)
	}
}

func TestLevelsSortedOnLoad(t *testing.T) {
	cfg := threeLevels()
	cfg.Levels[0], cfg.Levels[2] = cfg.Levels[2], cfg.Levels[0]
	e := newInitialized(t, cfg)

	levels := e.Levels()
	for i, want := range []int{1, 2, 3} {
		if levels[i].Level != want {
			t.Errorf("levels[%d] = %d, want %d", i, levels[i].Level, want)
		}
	}
	if info := e.LevelInfo(200); math.Abs(info.ProgressPercent-50) > 1e-9 {
		t.Errorf("progress = %v, want 50", info.ProgressPercent)
	}
}

func ptr[T any](v T) *T { return &v }

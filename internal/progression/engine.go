package progression

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ConfigSource supplies the progression configuration. A nil config with a
// nil error means the source has no configuration.
type ConfigSource interface {
	FetchProgressionConfig(ctx context.Context) (*Config, error)
}

// Engine answers level, progress and quota queries against a configuration
// loaded once per process. All queries are safe to call before Initialize;
// they return deterministic placeholders until it completes.
type Engine struct {
	src ConfigSource
	log zerolog.Logger

	once    sync.Once
	initErr error

	mu     sync.RWMutex
	cfg    Config
	origin Origin
}

// NewEngine creates an uninitialized engine reading from src.
func NewEngine(src ConfigSource, log zerolog.Logger) *Engine {
	return &Engine{
		src:    src,
		log:    log,
		cfg:    Config{Rules: DefaultRules()},
		origin: OriginUninitialized,
	}
}

// NewStaticEngine returns an engine already initialized with cfg. Missing XP
// rules are filled with defaults the same way a fetched config is.
func NewStaticEngine(cfg Config) *Engine {
	e := &Engine{log: zerolog.Nop()}
	e.apply(cfg, OriginRemote)
	e.once.Do(func() {})
	return e
}

// Initialize fetches the configuration once. A fetch error, a missing config
// or an invalid level table all degrade to the built-in defaults and are only
// logged; play is never blocked by configuration. Later calls return the
// cached result. The only error is a context cancelled before the fetch.
func (e *Engine) Initialize(ctx context.Context) error {
	e.once.Do(func() {
		if err := ctx.Err(); err != nil {
			e.initErr = fmt.Errorf("initialize progression: %w", err)
			return
		}

		var cfg *Config
		var err error
		if e.src != nil {
			cfg, err = e.src.FetchProgressionConfig(ctx)
		}

		switch {
		case err != nil:
			e.log.Error().Err(err).Msg("fetch progression config failed, using defaults")
			e.apply(Config{}, OriginDefaults)
		case cfg == nil:
			e.log.Warn().Msg("no progression config found, using defaults")
			e.apply(Config{}, OriginDefaults)
		default:
			if verr := Validate(*cfg); verr != nil {
				e.log.Error().Err(verr).Msg("progression config rejected, using defaults")
				e.apply(Config{}, OriginDefaults)
				return
			}
			e.apply(*cfg, OriginRemote)
			e.log.Info().
				Int("levels", len(cfg.Levels)).
				Int("question_rewards", len(cfg.QuestionRewards)).
				Msg("progression config loaded")
		}
	})
	return e.initErr
}

// apply installs cfg, sorting the level table and filling zero XP rules.
func (e *Engine) apply(cfg Config, origin Origin) {
	cfg.Levels = sortedLevels(cfg.Levels)
	cfg.QuestionRewards = sortedRewards(cfg.QuestionRewards)
	if cfg.Rules.XPPerCorrectAnswer == 0 {
		cfg.Rules.XPPerCorrectAnswer = DefaultXPPerCorrectAnswer
	}
	if cfg.Rules.XPBonusAllCorrect == 0 {
		cfg.Rules.XPBonusAllCorrect = DefaultXPBonusAllCorrect
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.origin = origin
}

// Origin reports where the active configuration came from.
func (e *Engine) Origin() Origin {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.origin
}

// Rules returns the active game rules.
func (e *Engine) Rules() GameRules {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Rules
}

// Levels returns a copy of the level table in ascending order.
func (e *Engine) Levels() []LevelDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]LevelDefinition, len(e.cfg.Levels))
	copy(out, e.cfg.Levels)
	return out
}

// LevelInfo places currentXP in the level table. The current level is the
// highest one whose threshold is at or below currentXP. At the top level,
// progress is 100 and NextLevelXP equals currentXP.
func (e *Engine) LevelInfo(currentXP int) LevelInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return levelInfo(e.origin, e.cfg.Levels, currentXP)
}

func levelInfo(origin Origin, levels []LevelDefinition, currentXP int) LevelInfo {
	if origin == OriginUninitialized || len(levels) == 0 {
		return placeholder
	}

	idx := 0
	for i := len(levels) - 1; i >= 0; i-- {
		if currentXP >= levels[i].XPRequired {
			idx = i
			break
		}
	}
	cur := levels[idx]

	info := LevelInfo{
		Level:           cur.Level,
		Title:           cur.Title,
		CurrentLevelXP:  cur.XPRequired,
		NextLevelXP:     currentXP,
		ProgressPercent: 100,
	}
	if idx+1 < len(levels) {
		next := levels[idx+1]
		info.NextLevelXP = next.XPRequired
		span := float64(next.XPRequired - cur.XPRequired)
		info.ProgressPercent = clampPercent(float64(currentXP-cur.XPRequired) / span * 100)
	}
	return info
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// CheckLevelUp reports a level increase between oldXP and newXP, with the
// diamond reward of the level reached. Returns nil when the level is unchanged
// or lower.
func (e *Engine) CheckLevelUp(oldXP, newXP int) *LevelUp {
	e.mu.RLock()
	defer e.mu.RUnlock()

	before := levelInfo(e.origin, e.cfg.Levels, oldXP)
	after := levelInfo(e.origin, e.cfg.Levels, newXP)
	if after.Level <= before.Level {
		return nil
	}

	up := &LevelUp{LevelInfo: after}
	for _, l := range e.cfg.Levels {
		if l.Level == after.Level {
			up.Reward = l.DiamondsReward
			break
		}
	}
	return up
}

// MaxQuestionsForLevel returns the quiz question quota at level: the base
// quota plus the addend built from every reward rule reached, in ascending
// level order.
func (e *Engine) MaxQuestionsForLevel(level int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.origin == OriginUninitialized {
		return BaseQuestions
	}

	add := 0
	for _, r := range e.cfg.QuestionRewards {
		if level < r.Level {
			continue
		}
		if r.IsCumulative {
			add += r.QuestionsToAdd
		} else {
			add = r.QuestionsToAdd
		}
	}
	return BaseQuestions + add
}

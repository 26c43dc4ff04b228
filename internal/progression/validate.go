package progression

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps every structural problem found in a configuration.
var ErrInvalidConfig = errors.New("invalid progression config")

var validate = validator.New()

// Validate checks field ranges and the level table invariants: levels are
// unique, XP thresholds strictly increase with level, and the lowest level
// starts at 0 XP. The input is not modified.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if len(cfg.Levels) == 0 {
		return nil
	}

	levels := sortedLevels(cfg.Levels)
	if levels[0].XPRequired != 0 {
		return fmt.Errorf("%w: level %d must require 0 xp, got %d",
			ErrInvalidConfig, levels[0].Level, levels[0].XPRequired)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Level == prev.Level {
			return fmt.Errorf("%w: duplicate level %d", ErrInvalidConfig, cur.Level)
		}
		if cur.XPRequired <= prev.XPRequired {
			return fmt.Errorf("%w: level %d requires %d xp, not above level %d (%d xp)",
				ErrInvalidConfig, cur.Level, cur.XPRequired, prev.Level, prev.XPRequired)
		}
	}
	return nil
}

// sortedLevels returns a copy of levels ordered by level number.
func sortedLevels(levels []LevelDefinition) []LevelDefinition {
	out := make([]LevelDefinition, len(levels))
	copy(out, levels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

// sortedRewards returns a copy of rules ordered by level.
func sortedRewards(rules []QuestionRewardRule) []QuestionRewardRule {
	out := make([]QuestionRewardRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

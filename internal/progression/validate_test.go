package progression

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"seed config", func(*Config) {}, false},
		{"empty", func(c *Config) { *c = Config{} }, false},
		{"first level not zero", func(c *Config) { c.Levels[0].XPRequired = 5 }, true},
		{"duplicate level", func(c *Config) { c.Levels[1].Level = 1 }, true},
		{"thresholds not increasing", func(c *Config) { c.Levels[2].XPRequired = c.Levels[1].XPRequired }, true},
		{"negative reward", func(c *Config) { c.Levels[1].DiamondsReward = -1 }, true},
		{"missing title", func(c *Config) { c.Levels[3].Title = "" }, true},
		{"level zero", func(c *Config) { c.Levels[0].Level = 0 }, true},
		{"negative rule", func(c *Config) { c.Rules.XPBonusAllCorrect = -10 }, true},
		{"negative questions", func(c *Config) { c.QuestionRewards[0].QuestionsToAdd = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SeedConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("err = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

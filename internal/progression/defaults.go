package progression

// Built-in fallbacks applied when the remote configuration is unavailable.
const (
	BaseQuestions             = 5
	DefaultXPPerCorrectAnswer = 10
	DefaultXPBonusAllCorrect  = 50
)

// placeholder is returned by LevelInfo before initialization or with an
// empty level table.
var placeholder = LevelInfo{
	Level:           1,
	Title:           "Beginner",
	ProgressPercent: 0,
	CurrentLevelXP:  0,
	NextLevelXP:     100,
}

// DefaultRules returns the rules used when none are configured.
func DefaultRules() GameRules {
	return GameRules{
		XPPerCorrectAnswer: DefaultXPPerCorrectAnswer,
		XPBonusAllCorrect:  DefaultXPBonusAllCorrect,
	}
}

// SeedConfig returns the configuration written by `pagequiz config seed`.
// It is a starting point for a fresh database, not a runtime fallback.
func SeedConfig() Config {
	return Config{
		Levels: []LevelDefinition{
			{Level: 1, Title: "Beginner", XPRequired: 0, DiamondsReward: 0},
			{Level: 2, Title: "Reciter", XPRequired: 100, DiamondsReward: 10},
			{Level: 3, Title: "Reader", XPRequired: 300, DiamondsReward: 15},
			{Level: 4, Title: "Student", XPRequired: 600, DiamondsReward: 20},
			{Level: 5, Title: "Memoriser", XPRequired: 1000, DiamondsReward: 25},
			{Level: 6, Title: "Reviser", XPRequired: 1500, DiamondsReward: 30},
			{Level: 7, Title: "Keeper", XPRequired: 2100, DiamondsReward: 35},
			{Level: 8, Title: "Guardian", XPRequired: 2800, DiamondsReward: 40},
			{Level: 9, Title: "Scholar", XPRequired: 3600, DiamondsReward: 50},
			{Level: 10, Title: "Hafiz", XPRequired: 4500, DiamondsReward: 100},
		},
		QuestionRewards: []QuestionRewardRule{
			{Level: 2, QuestionsToAdd: 2, IsCumulative: true},
			{Level: 5, QuestionsToAdd: 3, IsCumulative: true},
			{Level: 8, QuestionsToAdd: 5, IsCumulative: true},
		},
		Rules: GameRules{
			XPPerCorrectAnswer:      DefaultXPPerCorrectAnswer,
			XPBonusAllCorrect:       DefaultXPBonusAllCorrect,
			DiamondsBonusAllCorrect: 5,
			DailyQuizzesGoal:        3,
			DailyQuizzesBonusXP:     30,
		},
	}
}

package progression

// LevelDefinition maps an XP threshold to a level title and its diamond reward.
type LevelDefinition struct {
	Level          int    `json:"level" validate:"min=1"`
	Title          string `json:"title" validate:"required"`
	XPRequired     int    `json:"xp_required" validate:"min=0"`
	DiamondsReward int    `json:"diamonds_reward" validate:"min=0"`
}

// QuestionRewardRule unlocks extra quiz questions once a level is reached.
// Cumulative rules add to the running addend; the others replace it.
type QuestionRewardRule struct {
	Level          int  `json:"level" validate:"min=1"`
	QuestionsToAdd int  `json:"questions_to_add" validate:"min=0"`
	IsCumulative   bool `json:"is_cumulative"`
}

// GameRules holds the scalar reward configuration. A zero bonus means none.
type GameRules struct {
	XPPerCorrectAnswer      int `json:"xp_per_correct_answer" validate:"min=0"`
	XPBonusAllCorrect       int `json:"xp_bonus_all_correct" validate:"min=0"`
	DiamondsBonusAllCorrect int `json:"diamonds_bonus_all_correct" validate:"min=0"`
	DailyQuizzesGoal        int `json:"daily_quizzes_goal" validate:"min=0"`
	DailyQuizzesBonusXP     int `json:"daily_quizzes_bonus_xp" validate:"min=0"`
}

// Config is the full progression configuration snapshot.
type Config struct {
	Levels          []LevelDefinition    `json:"levels" validate:"dive"`
	QuestionRewards []QuestionRewardRule `json:"question_rewards" validate:"dive"`
	Rules           GameRules            `json:"rules"`
}

// LevelInfo describes where an XP total sits in the level table.
type LevelInfo struct {
	Level           int
	Title           string
	ProgressPercent float64 // 0-100
	CurrentLevelXP  int     // XP floor of the current level
	NextLevelXP     int     // XP ceiling (next level threshold, or XP itself at max level)
}

// LevelUp is returned when an XP change crosses into a higher level.
type LevelUp struct {
	LevelInfo
	Reward int // diamonds granted by the new level
}

// Origin identifies where the active configuration came from.
type Origin string

const (
	OriginUninitialized Origin = "uninitialized"
	OriginRemote        Origin = "remote"
	OriginDefaults      Origin = "defaults"
)
